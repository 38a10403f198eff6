package dispatcher

import (
	"slices"
	"testing"

	"elevsched/src/types"
)

func TestBacklogAddCoalescesDuplicates(t *testing.T) {
	b := NewBacklog()
	if !b.Add(3, types.DirUp) {
		t.Error("Expected first add to succeed")
	}
	if b.Add(3, types.DirUp) {
		t.Error("Expected duplicate add to be refused")
	}
	if !b.Add(3, types.DirDown) {
		t.Error("Expected the same floor under the other direction to be a fresh entry")
	}
	if b.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", b.Len())
	}
}

func TestBacklogNearest(t *testing.T) {
	tests := []struct {
		name    string
		floors  []int
		pos     float64
		want    int
		wantHit bool
	}{
		{name: "empty", floors: nil, pos: 2, wantHit: false},
		{name: "single", floors: []int{4}, pos: 0, want: 4, wantHit: true},
		{name: "closest wins", floors: []int{1, 5}, pos: 4.2, want: 5, wantHit: true},
		{name: "tie goes to the lower floor", floors: []int{1, 3}, pos: 2, want: 1, wantHit: true},
		{name: "fractional position", floors: []int{2, 3}, pos: 2.4, want: 2, wantHit: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBacklog()
			for _, f := range tc.floors {
				b.Add(f, types.DirUp)
			}
			got, hit := b.Nearest(tc.pos, types.DirUp)
			if hit != tc.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tc.wantHit, hit)
			}
			if hit && got != tc.want {
				t.Errorf("Expected nearest %d, got %d", tc.want, got)
			}
		})
	}
}

func TestBacklogFloorsSortedPerDirection(t *testing.T) {
	b := NewBacklog()
	b.Add(5, types.DirDown)
	b.Add(1, types.DirDown)
	b.Add(3, types.DirDown)
	b.Add(2, types.DirUp)

	if got := b.Floors(types.DirDown); !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("Expected [1 3 5], got %v", got)
	}
	if got := b.Floors(types.DirUp); !slices.Equal(got, []int{2}) {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestBacklogRemove(t *testing.T) {
	b := NewBacklog()
	b.Add(2, types.DirUp)
	b.Remove(2, types.DirUp)
	if b.Len() != 0 {
		t.Errorf("Expected empty backlog, got %d entries", b.Len())
	}
	if _, hit := b.Nearest(0, types.DirUp); hit {
		t.Error("Expected no nearest floor after removal")
	}
}
