package rider

import "liftsim/src/types"

// path is an ordered list of waypoints. The head is the current target.
type path []types.Vec3

// follow moves pos towards the head waypoint by at most step units. A reached
// waypoint is snapped to exactly and dropped. Returns true once no waypoints remain.
func (p *path) follow(pos *types.Vec3, step float64) bool {
	if len(*p) == 0 {
		return true
	}
	target := (*p)[0]
	toTarget := target.Sub(*pos)
	dist := toTarget.Len()
	if step >= dist {
		*pos = target
		*p = (*p)[1:]
		return len(*p) == 0
	}
	if step > 0 {
		*pos = pos.Add(toTarget.Scale(step / dist))
	}
	return false
}
