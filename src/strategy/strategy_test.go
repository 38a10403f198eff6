package strategy

import (
	"strings"
	"testing"

	"elevsched/src/types"
)

type fakeCar struct {
	id        int
	pos       float64
	target    int
	dir       types.Direction
	occupants int
	capacity  int
}

func (c fakeCar) ID() int                    { return c.id }
func (c fakeCar) Floor() float64             { return c.pos }
func (c fakeCar) TargetFloor() int           { return c.target }
func (c fakeCar) Direction() types.Direction { return c.dir }
func (c fakeCar) Occupants() int             { return c.occupants }
func (c fakeCar) Capacity() int              { return c.capacity }

func mustNew(t *testing.T, name string, topFloor int) Strategy {
	t.Helper()
	s, err := New(name, topFloor)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New("fancy", 5)
	if err == nil {
		t.Fatal("Expected an error for an unregistered name")
	}
	if !strings.Contains(err.Error(), "unknown strategy") {
		t.Errorf("Expected the error to name the problem, got %q", err)
	}
}

func TestNamesAllConstruct(t *testing.T) {
	for _, name := range Names() {
		s, err := New(name, 5)
		if err != nil {
			t.Errorf("Expected %q to construct, got %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("Expected Name() %q, got %q", name, s.Name())
		}
	}
}

func TestCostIsRepeatable(t *testing.T) {
	car := fakeCar{id: 0, pos: 1.5, dir: types.DirUp, occupants: 3, capacity: 8}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := mustNew(t, name, 5)
			first := s.Cost(car, 4, types.DirUp)
			for i := 0; i < 3; i++ {
				if got := s.Cost(car, 4, types.DirUp); got != first {
					t.Errorf("Expected repeated cost %v, got %v", first, got)
				}
			}
		})
	}
}

func TestScanCost(t *testing.T) {
	s := mustNew(t, "scan", 5)
	car := fakeCar{pos: 1, dir: types.DirUp, occupants: 2, capacity: 8}
	if got := s.Cost(car, 4, types.DirDown); got != 17 {
		t.Errorf("Expected conflicting call to cost 17, got %v", got)
	}
	if got := s.Cost(car, 4, types.DirUp); got != 7 {
		t.Errorf("Expected aligned call to cost 7, got %v", got)
	}
}

func TestScanIdleTargetSweeps(t *testing.T) {
	s := mustNew(t, "scan", 5)
	tests := []struct {
		name  string
		car   fakeCar
		queue []int
		want  int
	}{
		{name: "queued head wins", car: fakeCar{pos: 2}, queue: []int{3, 1}, want: 3},
		{name: "at bottom turns up", car: fakeCar{pos: 0}, want: 5},
		{name: "at top turns down", car: fakeCar{pos: 5}, want: 0},
		{name: "moving up continues up", car: fakeCar{pos: 2.5, dir: types.DirUp}, want: 5},
		{name: "otherwise heads down", car: fakeCar{pos: 2.5, dir: types.DirDown}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := s.IdleTarget(tc.car, tc.queue)
			if !ok || cmd.Floor != tc.want {
				t.Errorf("Expected target %d, got %v ok=%v", tc.want, cmd, ok)
			}
		})
	}
}

func TestLookCostAndMemory(t *testing.T) {
	s := mustNew(t, "look", 5)
	car := fakeCar{id: 3, pos: 1, dir: types.DirUp, occupants: 2, capacity: 8}
	if got := s.Cost(car, 4, types.DirDown); got != 22 {
		t.Errorf("Expected conflicting call to cost 22, got %v", got)
	}
	if got := s.Cost(car, 4, types.DirUp); got != 7 {
		t.Errorf("Expected aligned call to cost 7, got %v", got)
	}

	// A fresh car has no travel history and idles toward the bottom.
	idle := fakeCar{id: 4, pos: 2}
	if cmd, ok := s.IdleTarget(idle, nil); !ok || cmd.Floor != 0 {
		t.Errorf("Expected a fresh car to head for floor 0, got %v ok=%v", cmd, ok)
	}

	// Observing upward motion flips the continuation for that car only.
	moving := fakeCar{id: 4, pos: 2.5, dir: types.DirUp}
	s.IdleTarget(moving, nil)
	stopped := fakeCar{id: 4, pos: 3}
	if cmd, ok := s.IdleTarget(stopped, nil); !ok || cmd.Floor != 5 {
		t.Errorf("Expected the car to keep heading up, got %v ok=%v", cmd, ok)
	}
	other := fakeCar{id: 9, pos: 3}
	if cmd, ok := s.IdleTarget(other, nil); !ok || cmd.Floor != 0 {
		t.Errorf("Expected another car's history untouched, got %v ok=%v", cmd, ok)
	}
}

func TestShortest(t *testing.T) {
	s := mustNew(t, "shortest", 5)
	car := fakeCar{pos: 2, occupants: 2, capacity: 8}
	if got := s.Cost(car, 4, types.DirUp); got != 8 {
		t.Errorf("Expected cost 8, got %v", got)
	}

	if cmd, ok := s.IdleTarget(car, []int{4, 1}); !ok || cmd.Floor != 1 {
		t.Errorf("Expected the nearest queued floor 1, got %v ok=%v", cmd, ok)
	}
	if cmd, ok := s.IdleTarget(car, []int{3, 1}); !ok || cmd.Floor != 3 {
		t.Errorf("Expected the earlier queue position to win the tie, got %v ok=%v", cmd, ok)
	}
	if _, ok := s.IdleTarget(car, nil); ok {
		t.Error("Expected no parking target on an empty queue")
	}
}

func TestLoadBalanceCost(t *testing.T) {
	s := mustNew(t, "loadbalance", 4)
	heavy := fakeCar{pos: 0, occupants: 6, capacity: 8}
	if got := s.Cost(heavy, 2, types.DirUp); got != 17 {
		t.Errorf("Expected a heavy car to cost 17, got %v", got)
	}
	light := fakeCar{pos: 0, occupants: 2, capacity: 8}
	if got := s.Cost(light, 2, types.DirUp); got != 4.5 {
		t.Errorf("Expected the below-half discount, cost 4.5, got %v", got)
	}
}

func TestLoadBalanceIdleParksLightCars(t *testing.T) {
	s := mustNew(t, "loadbalance", 4)
	light := fakeCar{pos: 0, occupants: 1, capacity: 8}
	if cmd, ok := s.IdleTarget(light, nil); !ok || cmd.Floor != 2 {
		t.Errorf("Expected a light car to park at the center, got %v ok=%v", cmd, ok)
	}
	heavy := fakeCar{pos: 0, occupants: 4, capacity: 8}
	if _, ok := s.IdleTarget(heavy, nil); ok {
		t.Error("Expected a half-full car to hold position")
	}
	if cmd, ok := s.IdleTarget(light, []int{3}); !ok || cmd.Floor != 3 {
		t.Errorf("Expected the queued head before any parking, got %v ok=%v", cmd, ok)
	}
}

func TestDirectionalCost(t *testing.T) {
	s := mustNew(t, "directional", 5)
	up := fakeCar{pos: 1, dir: types.DirUp}
	if got := s.Cost(up, 4, types.DirUp); got != -2 {
		t.Errorf("Expected the direction match bonus, cost -2, got %v", got)
	}
	if got := s.Cost(up, 4, types.DirDown); got != 13 {
		t.Errorf("Expected the conflict penalty, cost 13, got %v", got)
	}
	idle := fakeCar{pos: 1}
	if got := s.Cost(idle, 4, types.DirUp); got != 3 {
		t.Errorf("Expected a stopped car to pay distance only, got %v", got)
	}
	if _, ok := s.IdleTarget(idle, nil); ok {
		t.Error("Expected directional cars to hold position when idle")
	}
}

func TestAdaptiveCost(t *testing.T) {
	car := fakeCar{pos: 1, occupants: 2, capacity: 8}
	tests := []struct {
		name    string
		observe []int
		car     fakeCar
		floor   int
		dir     types.Direction
		want    float64
	}{
		{name: "short haul base weights", car: car, floor: 2, dir: types.DirUp, want: 6},
		{name: "long haul scales distance", car: car, floor: 4, dir: types.DirUp, want: 9.5},
		{name: "conflict adds direction weight", car: fakeCar{pos: 1, dir: types.DirDown, occupants: 2, capacity: 8}, floor: 2, dir: types.DirUp, want: 11},
		{name: "history discounts hot floors", observe: []int{2, 2, 2, 2}, car: car, floor: 2, dir: types.DirUp, want: 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := mustNew(t, "adaptive", 5)
			obs := s.(CallObserver)
			for _, f := range tc.observe {
				obs.ObserveCall(f, types.DirUp)
			}
			if got := s.Cost(tc.car, tc.floor, tc.dir); got != tc.want {
				t.Errorf("Expected cost %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAdaptiveIdleTarget(t *testing.T) {
	s := mustNew(t, "adaptive", 5)
	obs := s.(CallObserver)
	car := fakeCar{pos: 2, capacity: 8}

	// No history yet: hold position.
	if _, ok := s.IdleTarget(car, nil); ok {
		t.Error("Expected no target before any observed calls")
	}

	// Ties between equally busy floors fall to the earliest queue position.
	if cmd, ok := s.IdleTarget(car, []int{1, 3}); !ok || cmd.Floor != 1 {
		t.Errorf("Expected queue order to break the tie, got %v ok=%v", cmd, ok)
	}

	obs.ObserveCall(3, types.DirUp)
	obs.ObserveCall(3, types.DirDown)
	if cmd, ok := s.IdleTarget(car, []int{1, 3}); !ok || cmd.Floor != 3 {
		t.Errorf("Expected the busier queued floor, got %v ok=%v", cmd, ok)
	}

	// Parking goes to the most-requested floor, lowest on ties.
	obs.ObserveCall(1, types.DirUp)
	obs.ObserveCall(1, types.DirUp)
	if cmd, ok := s.IdleTarget(car, nil); !ok || cmd.Floor != 1 {
		t.Errorf("Expected the lowest of the tied busy floors, got %v ok=%v", cmd, ok)
	}
}

func TestInitPositionsSpreadAndClamp(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		topFloor int
		ordinal  int
		want     int
	}{
		{name: "scan first car at bottom", strategy: "scan", topFloor: 5, ordinal: 0, want: 0},
		{name: "scan spreads by half spans", strategy: "scan", topFloor: 5, ordinal: 1, want: 2},
		{name: "scan clamps to the top", strategy: "scan", topFloor: 5, ordinal: 4, want: 5},
		{name: "look matches scan", strategy: "look", topFloor: 5, ordinal: 1, want: 2},
		{name: "shortest parks center", strategy: "shortest", topFloor: 5, ordinal: 3, want: 2},
		{name: "loadbalance spreads wider", strategy: "loadbalance", topFloor: 4, ordinal: 1, want: 2},
		{name: "loadbalance clamps", strategy: "loadbalance", topFloor: 4, ordinal: 3, want: 4},
		{name: "directional parks center", strategy: "directional", topFloor: 5, ordinal: 9, want: 2},
		{name: "adaptive parks center", strategy: "adaptive", topFloor: 5, ordinal: 9, want: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := mustNew(t, tc.strategy, tc.topFloor)
			cmd := s.InitPosition(0, tc.ordinal)
			if cmd.Floor != tc.want {
				t.Errorf("Expected start floor %d, got %d", tc.want, cmd.Floor)
			}
			if !cmd.Immediate {
				t.Error("Expected initialization commands to be immediate")
			}
		})
	}
}
