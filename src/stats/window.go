package stats

// Window is a fixed-capacity ring of recent values. Pushing onto a full window
// evicts the oldest value.
type Window[T any] struct {
	values    []T
	nextIndex int
	full      bool
}

func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{values: make([]T, capacity)}
}

func (w *Window[T]) Push(v T) {
	w.values[w.nextIndex] = v
	w.nextIndex = (w.nextIndex + 1) % len(w.values)
	if w.nextIndex == 0 {
		w.full = true
	}
}

func (w *Window[T]) Len() int {
	if w.full {
		return len(w.values)
	}
	return w.nextIndex
}

func (w *Window[T]) Cap() int {
	return len(w.values)
}

// Values returns a copy of the window contents, oldest first.
func (w *Window[T]) Values() []T {
	out := make([]T, 0, w.Len())
	if w.full {
		out = append(out, w.values[w.nextIndex:]...)
	}
	return append(out, w.values[:w.nextIndex]...)
}
