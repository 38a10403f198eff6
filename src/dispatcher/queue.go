package dispatcher

import "slices"

// TargetQueue is one car's ordered list of floors to visit. Floors enter at
// the tail exactly once and leave when the car stops at them.
type TargetQueue struct {
	floors []int
}

// Append adds floor at the tail. Returns false if it was already queued.
func (q *TargetQueue) Append(floor int) bool {
	if slices.Contains(q.floors, floor) {
		return false
	}
	q.floors = append(q.floors, floor)
	return true
}

// Remove deletes floor wherever it sits in the queue. Returns false when
// the floor was not queued.
func (q *TargetQueue) Remove(floor int) bool {
	i := slices.Index(q.floors, floor)
	if i < 0 {
		return false
	}
	q.floors = slices.Delete(q.floors, i, i+1)
	return true
}

// Head returns the next floor to visit.
func (q *TargetQueue) Head() (int, bool) {
	if len(q.floors) == 0 {
		return 0, false
	}
	return q.floors[0], true
}

func (q *TargetQueue) Len() int { return len(q.floors) }

func (q *TargetQueue) Contains(floor int) bool { return slices.Contains(q.floors, floor) }

// Floors returns a copy of the queue in visit order.
func (q *TargetQueue) Floors() []int { return slices.Clone(q.floors) }
