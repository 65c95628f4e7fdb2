package events

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

func TestMultiFansOut(t *testing.T) {
	var a, b int
	m := Multi{
		Funcs{RiderArriving: func(RiderEvent) { a++ }},
		Funcs{RiderArriving: func(RiderEvent) { b++ }},
		Nop{},
	}
	m.OnRiderArriving(RiderEvent{})
	m.OnCarFull(CarEvent{})
	if a != 1 || b != 1 {
		t.Errorf("expected both listeners called once, got %d and %d", a, b)
	}
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	l.OnCarArrivedAtFloor(CarEvent{Car: 1})
	if _, ok := l.(Nop); !ok {
		t.Errorf("expected Nop, got %T", l)
	}
}

func TestJournalWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf, "abc")
	j.OnRiderArriving(RiderEvent{Rider: 3, Floor: 1, Dest: 7, At: 1500 * time.Millisecond})
	j.OnRiderLeaving(RiderEvent{Rider: 3, Floor: 7, Dest: 7, Car: 2, Fare: 0.25, Trip: 20 * time.Second})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["event"] != "rider_arriving" || first["run"] != "abc" || first["atMs"] != float64(1500) {
		t.Errorf("unexpected first line %v", first)
	}
	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if second["car"] != float64(2) || second["tripMs"] != float64(20000) {
		t.Errorf("unexpected second line %v", second)
	}
}

func TestNarratorRateLimit(t *testing.T) {
	var said []string
	n := NewNarrator(rand.New(rand.NewPCG(1, 2)), func(category, phrase string) {
		said = append(said, category)
	})
	// tooLate always speaks when allowed.
	n.OnRiderTooLate(RiderEvent{At: 0})
	n.OnRiderTooLate(RiderEvent{At: time.Second})
	n.OnRiderTooLate(RiderEvent{At: 4 * time.Second})
	n.OnRiderTooLate(RiderEvent{At: 5 * time.Second})
	if len(said) != 2 {
		t.Errorf("expected 2 remarks with a 5s gap, got %d", len(said))
	}
}
