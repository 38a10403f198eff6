package strategy

import (
	"elevsched/src/types"
	"elevsched/src/utils"
)

// scanStrategy sweeps the full shaft like classic disk SCAN: idle cars
// commit to an extreme and queued floors are served in arrival order.
type scanStrategy struct {
	top int
}

func newScan(topFloor int) *scanStrategy { return &scanStrategy{top: topFloor} }

func (s *scanStrategy) Name() string { return "scan" }

func (s *scanStrategy) InitPosition(carID, ordinal int) types.Command {
	return types.Command{Floor: utils.Clamp(ordinal*(s.top-1)/2, 0, s.top), Immediate: true}
}

func (s *scanStrategy) IdleTarget(car types.CarInfo, queue []int) (types.Command, bool) {
	if floor, ok := head(queue); ok {
		return types.Command{Floor: floor}, true
	}
	// Empty queue: keep sweeping. Turn around at the extremes, otherwise
	// continue the committed direction.
	switch {
	case car.Floor() <= 0:
		return types.Command{Floor: s.top}, true
	case car.Floor() >= float64(s.top):
		return types.Command{Floor: 0}, true
	case car.Direction() == types.DirUp:
		return types.Command{Floor: s.top}, true
	default:
		return types.Command{Floor: 0}, true
	}
}

func (s *scanStrategy) Cost(car types.CarInfo, floor int, dir types.Direction) float64 {
	cost := distance(car, floor)
	if conflicts(car, dir) {
		cost += 10
	}
	return cost + 2*float64(car.Occupants())
}
