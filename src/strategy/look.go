package strategy

import (
	"elevsched/src/types"
	"elevsched/src/utils"
)

// lookStrategy is scan with a memory: an idle car continues in the
// direction it last traveled instead of committing to a fixed sweep. The
// conflict penalty is stiffer so cars finish a direction before turning.
type lookStrategy struct {
	top     int
	lastDir map[int]types.Direction
}

func newLook(topFloor int) *lookStrategy {
	return &lookStrategy{top: topFloor, lastDir: make(map[int]types.Direction)}
}

func (s *lookStrategy) Name() string { return "look" }

func (s *lookStrategy) InitPosition(carID, ordinal int) types.Command {
	return types.Command{Floor: utils.Clamp(ordinal*(s.top-1)/2, 0, s.top), Immediate: true}
}

func (s *lookStrategy) IdleTarget(car types.CarInfo, queue []int) (types.Command, bool) {
	if d := car.Direction(); d != types.DirStopped {
		s.lastDir[car.ID()] = d
	}
	if floor, ok := head(queue); ok {
		return types.Command{Floor: floor}, true
	}
	if s.lastDir[car.ID()] == types.DirUp {
		return types.Command{Floor: s.top}, true
	}
	return types.Command{Floor: 0}, true
}

func (s *lookStrategy) Cost(car types.CarInfo, floor int, dir types.Direction) float64 {
	cost := distance(car, floor)
	if conflicts(car, dir) {
		cost += 15
	}
	return cost + 2*float64(car.Occupants())
}
