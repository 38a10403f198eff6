package strategy

import "elevsched/src/types"

// shortestStrategy greedily serves whatever is closest, with a small load
// penalty to spread passengers. Idle cars with nothing queued hold position.
type shortestStrategy struct {
	top int
}

func newShortest(topFloor int) *shortestStrategy { return &shortestStrategy{top: topFloor} }

func (s *shortestStrategy) Name() string { return "shortest" }

func (s *shortestStrategy) InitPosition(carID, ordinal int) types.Command {
	return types.Command{Floor: s.top / 2, Immediate: true}
}

func (s *shortestStrategy) IdleTarget(car types.CarInfo, queue []int) (types.Command, bool) {
	if len(queue) == 0 {
		return types.Command{}, false
	}
	// Nearest queued floor, earliest queue position on ties.
	best := queue[0]
	bestDist := distance(car, queue[0])
	for _, f := range queue[1:] {
		if d := distance(car, f); d < bestDist {
			best, bestDist = f, d
		}
	}
	return types.Command{Floor: best}, true
}

func (s *shortestStrategy) Cost(car types.CarInfo, floor int, dir types.Direction) float64 {
	return distance(car, floor) + 3*float64(car.Occupants())
}
