package strategy

import "elevsched/src/types"

// adaptiveStrategy blends distance, load and direction terms with weights
// that shift with the car's occupancy and the length of the haul, and
// discounts floors that historically generate calls. History grows only
// through ObserveCall, so costs stay reproducible for a given call sequence.
type adaptiveStrategy struct {
	top     int
	wDist   float64
	wLoad   float64
	wDir    float64
	history map[int]int
}

func newAdaptive(topFloor int) *adaptiveStrategy {
	return &adaptiveStrategy{
		top:     topFloor,
		wDist:   1,
		wLoad:   2,
		wDir:    5,
		history: make(map[int]int),
	}
}

func (s *adaptiveStrategy) Name() string { return "adaptive" }

func (s *adaptiveStrategy) ObserveCall(floor int, dir types.Direction) {
	s.history[floor]++
}

func (s *adaptiveStrategy) InitPosition(carID, ordinal int) types.Command {
	return types.Command{Floor: s.top / 2, Immediate: true}
}

func (s *adaptiveStrategy) IdleTarget(car types.CarInfo, queue []int) (types.Command, bool) {
	if len(queue) > 0 {
		// Serve the queued floor that generates the most calls first,
		// earliest queue position on ties.
		best := queue[0]
		for _, f := range queue[1:] {
			if s.history[f] > s.history[best] {
				best = f
			}
		}
		return types.Command{Floor: best}, true
	}
	floor, ok := s.busiestFloor()
	if !ok {
		return types.Command{}, false
	}
	return types.Command{Floor: floor}, true
}

// busiestFloor is the floor with the most observed calls, lowest floor on
// ties. False until the first call has been observed.
func (s *adaptiveStrategy) busiestFloor() (int, bool) {
	best, count := 0, 0
	for floor := 0; floor <= s.top; floor++ {
		if c := s.history[floor]; c > count {
			best, count = floor, c
		}
	}
	if count == 0 {
		return 0, false
	}
	return best, true
}

func (s *adaptiveStrategy) Cost(car types.CarInfo, floor int, dir types.Direction) float64 {
	dist := distance(car, floor)
	occ := float64(car.Occupants()) / float64(car.Capacity())

	// Long hauls and full cars weigh heavier than the base triple.
	wDist := s.wDist
	if dist >= float64(s.top)/2 {
		wDist *= 1.5
	}
	wLoad := s.wLoad * (1 + occ)

	cost := wDist*dist + wLoad*float64(car.Occupants())
	if conflicts(car, dir) {
		cost += s.wDir
	}
	return cost - 0.5*float64(s.history[floor])
}
