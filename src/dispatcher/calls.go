package dispatcher

import (
	"slices"

	"liftsim/src/types"
)

// callQueue is a FIFO of hall calls holding each (floor, direction) pair at most once.
type callQueue struct {
	calls []types.CallRequest
}

// push appends call unless it is already queued. Returns true if it was added.
func (q *callQueue) push(call types.CallRequest) bool {
	if q.contains(call) {
		return false
	}
	q.calls = append(q.calls, call)
	return true
}

func (q *callQueue) pop() (types.CallRequest, bool) {
	if len(q.calls) == 0 {
		return types.CallRequest{}, false
	}
	call := q.calls[0]
	q.calls = slices.Delete(q.calls, 0, 1)
	return call, true
}

func (q *callQueue) contains(call types.CallRequest) bool {
	return slices.Contains(q.calls, call)
}

func (q *callQueue) len() int {
	return len(q.calls)
}

func (q *callQueue) snapshot() []types.CallRequest {
	return slices.Clone(q.calls)
}
