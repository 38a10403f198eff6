package stats

import (
	"strings"
	"testing"

	"elevsched/src/types"
)

type statCar struct{ id int }

func (c statCar) ID() int                          { return c.id }
func (c statCar) Floor() float64                   { return 0 }
func (c statCar) TargetFloor() int                 { return types.NoTarget }
func (c statCar) Direction() types.Direction       { return types.DirStopped }
func (c statCar) Occupants() int                   { return 0 }
func (c statCar) Capacity() int                    { return 8 }
func (c statCar) GoToFloor(floor int, imm bool)    {}

type statPassenger struct{ id int }

func (p statPassenger) ID() int          { return p.id }
func (p statPassenger) Origin() int      { return 0 }
func (p statPassenger) Destination() int { return 3 }

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	car := statCar{id: 1}

	for i := 0; i < 3; i++ {
		c.CallReceived(statPassenger{id: i + 1}, 0, types.DirUp, i)
	}
	c.CallAssigned(car, statPassenger{id: 1}, 0, types.DirUp, 2.5)
	c.CallAssigned(car, statPassenger{id: 2}, 0, types.DirUp, 3)
	c.CallDeferred(0, types.DirUp)
	c.BacklogClaimed(car, 0, types.DirUp)
	c.Boarded(car, statPassenger{id: 1}, 4)
	c.Boarded(car, statPassenger{id: 2}, 0)
	c.Alighted(car, statPassenger{id: 1}, 3)
	c.Alighted(car, statPassenger{id: 2}, 3)
	c.Done(42)

	r := c.Report()
	if r.Calls != 3 || r.Assigned != 2 || r.Deferred != 1 || r.Claimed != 1 {
		t.Errorf("Expected calls 3/2/1/1, got %d/%d/%d/%d", r.Calls, r.Assigned, r.Deferred, r.Claimed)
	}
	if r.Boardings != 2 || r.Alightings != 2 {
		t.Errorf("Expected 2 boardings and alightings, got %d and %d", r.Boardings, r.Alightings)
	}
	if r.WaitSum != 4 || r.WaitMax != 4 {
		t.Errorf("Expected wait sum and max 4, got %d and %d", r.WaitSum, r.WaitMax)
	}
	if r.FinalTick != 42 {
		t.Errorf("Expected final tick 42, got %d", r.FinalTick)
	}
	if len(r.Waits) != 2 || r.Waits[0].Passenger != 1 || r.Waits[0].WaitTicks != 4 {
		t.Errorf("Expected per-passenger waits, got %+v", r.Waits)
	}
	if got := r.AvgWait(); got != 2 {
		t.Errorf("Expected average wait 2, got %v", got)
	}
}

func TestAvgWaitWithoutBoardings(t *testing.T) {
	var r Report
	if got := r.AvgWait(); got != 0 {
		t.Errorf("Expected 0 without boardings, got %v", got)
	}
}

func TestBacklogPeakTracksOutstandingDeferrals(t *testing.T) {
	c := NewCollector()
	car := statCar{id: 1}

	c.CallDeferred(1, types.DirUp)
	c.CallDeferred(2, types.DirUp)
	c.BacklogClaimed(car, 1, types.DirUp)
	c.CallDeferred(3, types.DirUp)
	c.CallDeferred(4, types.DirUp)

	if got := c.Report().BacklogPeak; got != 3 {
		t.Errorf("Expected peak 3, got %d", got)
	}
}

func TestReportIsIsolated(t *testing.T) {
	c := NewCollector()
	c.Boarded(statCar{id: 1}, statPassenger{id: 1}, 7)

	r := c.Report()
	r.Waits[0].WaitTicks = 99
	r.Waits = append(r.Waits, PassengerWait{Passenger: 2})

	again := c.Report()
	if len(again.Waits) != 1 || again.Waits[0].WaitTicks != 7 {
		t.Errorf("Expected the collector untouched by report mutation, got %+v", again.Waits)
	}
}

func TestSummary(t *testing.T) {
	c := NewCollector()
	car := statCar{id: 0}
	c.CallReceived(statPassenger{id: 1}, 0, types.DirUp, 1)
	c.Boarded(car, statPassenger{id: 1}, 3)
	c.Alighted(car, statPassenger{id: 1}, 3)
	c.Done(10)

	s := c.Summary()
	for _, want := range []string{"ticks: 10", "calls: 1", "boardings: 1, alightings: 1", "avg 3.00, max 3"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected the summary to contain %q, got:\n%s", want, s)
		}
	}
}
