package strategy

import "elevsched/src/types"

// directionalStrategy scores on committed direction above all else:
// matching calls get a bonus, conflicting calls a penalty. Cost can go
// negative for a perfectly aligned car; only relative order matters.
type directionalStrategy struct {
	top int
}

func newDirectional(topFloor int) *directionalStrategy {
	return &directionalStrategy{top: topFloor}
}

func (s *directionalStrategy) Name() string { return "directional" }

func (s *directionalStrategy) InitPosition(carID, ordinal int) types.Command {
	return types.Command{Floor: s.top / 2, Immediate: true}
}

func (s *directionalStrategy) IdleTarget(car types.CarInfo, queue []int) (types.Command, bool) {
	if floor, ok := head(queue); ok {
		return types.Command{Floor: floor}, true
	}
	return types.Command{}, false
}

func (s *directionalStrategy) Cost(car types.CarInfo, floor int, dir types.Direction) float64 {
	cost := distance(car, floor)
	switch {
	case conflicts(car, dir):
		cost += 10
	case car.Direction() == dir:
		cost -= 5
	}
	return cost
}
