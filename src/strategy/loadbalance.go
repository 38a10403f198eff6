package strategy

import (
	"elevsched/src/types"
	"elevsched/src/utils"
)

// loadBalanceStrategy keeps occupancy even across the fleet: cost grows
// with the occupancy ratio and cars below half capacity get a discount.
// Lightly loaded idle cars park at the center of the shaft.
type loadBalanceStrategy struct {
	top int
}

func newLoadBalance(topFloor int) *loadBalanceStrategy {
	return &loadBalanceStrategy{top: topFloor}
}

func (s *loadBalanceStrategy) Name() string { return "loadbalance" }

func (s *loadBalanceStrategy) InitPosition(carID, ordinal int) types.Command {
	return types.Command{Floor: utils.Clamp(ordinal*s.top/2, 0, s.top), Immediate: true}
}

func (s *loadBalanceStrategy) IdleTarget(car types.CarInfo, queue []int) (types.Command, bool) {
	if floor, ok := head(queue); ok {
		return types.Command{Floor: floor}, true
	}
	if car.Occupants() < car.Capacity()/2 {
		return types.Command{Floor: s.top / 2}, true
	}
	return types.Command{}, false
}

func (s *loadBalanceStrategy) Cost(car types.CarInfo, floor int, dir types.Direction) float64 {
	ratio := float64(car.Occupants()) / float64(car.Capacity())
	penalty := 20 * ratio
	if ratio < 0.5 {
		penalty /= 2
	}
	return distance(car, floor) + penalty
}
