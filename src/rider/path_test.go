package rider

import (
	"testing"

	"liftsim/src/types"
)

func TestPathFollowSnapsToWaypoints(t *testing.T) {
	pos := types.Vec3{}
	p := path{{X: 10}, {X: 10, Z: 10}}

	if p.follow(&pos, 4) {
		t.Fatal("path reported complete too early")
	}
	if pos != (types.Vec3{X: 4}) {
		t.Errorf("expected partial step to x=4, got %+v", pos)
	}
	if p.follow(&pos, 100) {
		t.Fatal("path complete with one waypoint left")
	}
	if pos != (types.Vec3{X: 10}) || len(p) != 1 {
		t.Errorf("expected exact snap to first waypoint, got %+v with %d left", pos, len(p))
	}
	if !p.follow(&pos, 100) {
		t.Fatal("path should be complete")
	}
	if pos != (types.Vec3{X: 10, Z: 10}) {
		t.Errorf("expected exact snap to last waypoint, got %+v", pos)
	}
}

func TestPathFollowWithoutTime(t *testing.T) {
	pos := types.Vec3{X: 1}
	p := path{{X: 5}}
	if p.follow(&pos, 0) || pos.X != 1 {
		t.Errorf("zero step moved the rider to %+v", pos)
	}

	var empty path
	if !empty.follow(&pos, 1) {
		t.Error("empty path should be complete")
	}
}
