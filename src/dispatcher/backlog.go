package dispatcher

import (
	"math"
	"slices"

	"elevsched/src/types"
)

// Backlog holds calls no car could accept at arrival time, one floor set
// per direction. Floors coalesce: ten people waiting at floor 3 make one
// entry. Entries never expire; a floor stays pending until a car claims it.
type Backlog struct {
	pending map[types.Direction]map[int]bool
}

func NewBacklog() *Backlog {
	return &Backlog{pending: map[types.Direction]map[int]bool{
		types.DirUp:   {},
		types.DirDown: {},
	}}
}

// Add files the floor under dir. Returns false when it was already pending.
func (b *Backlog) Add(floor int, dir types.Direction) bool {
	if b.pending[dir][floor] {
		return false
	}
	b.pending[dir][floor] = true
	return true
}

func (b *Backlog) Remove(floor int, dir types.Direction) {
	delete(b.pending[dir], floor)
}

// Nearest returns the pending floor for dir closest to pos, the lower floor
// on ties.
func (b *Backlog) Nearest(pos float64, dir types.Direction) (int, bool) {
	best := 0
	bestDist := math.MaxFloat64
	found := false
	for _, floor := range b.Floors(dir) {
		if d := math.Abs(pos - float64(floor)); d < bestDist {
			best, bestDist = floor, d
			found = true
		}
	}
	return best, found
}

// Floors returns the pending floors for dir in ascending order.
func (b *Backlog) Floors(dir types.Direction) []int {
	floors := make([]int, 0, len(b.pending[dir]))
	for f := range b.pending[dir] {
		floors = append(floors, f)
	}
	slices.Sort(floors)
	return floors
}

func (b *Backlog) Len() int {
	return len(b.pending[types.DirUp]) + len(b.pending[types.DirDown])
}
