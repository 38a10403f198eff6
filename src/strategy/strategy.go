package strategy

import (
	"fmt"
	"math"
	"strings"

	"elevsched/src/types"
)

// Strategy ranks cars for incoming calls and picks targets for idle cars.
// Lower cost wins. Cost must be total over in-range input and, for every
// strategy except adaptive, must return the same value for identical car
// state and arguments.
type Strategy interface {
	Name() string

	// InitPosition spreads cars over the shaft at startup. The returned
	// command is always immediate.
	InitPosition(carID, ordinal int) types.Command

	// IdleTarget picks the next stop from the queue, or a parking target
	// when the queue is empty. Must be safe to call repeatedly with
	// unchanged inputs.
	IdleTarget(car types.CarInfo, queue []int) (types.Command, bool)

	// Cost scores serving a call at floor in the given direction.
	Cost(car types.CarInfo, floor int, dir types.Direction) float64
}

// CallObserver is implemented by strategies that keep per-floor request
// history. The dispatcher reports each incoming call exactly once, before
// costing it.
type CallObserver interface {
	ObserveCall(floor int, dir types.Direction)
}

// New builds the named strategy for a shaft with floors 0..topFloor.
func New(name string, topFloor int) (Strategy, error) {
	switch name {
	case "scan":
		return newScan(topFloor), nil
	case "look":
		return newLook(topFloor), nil
	case "shortest":
		return newShortest(topFloor), nil
	case "loadbalance":
		return newLoadBalance(topFloor), nil
	case "directional":
		return newDirectional(topFloor), nil
	case "adaptive":
		return newAdaptive(topFloor), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (have %s)", name, strings.Join(Names(), ", "))
}

// Names lists the registered strategy names.
func Names() []string {
	return []string{"scan", "look", "shortest", "loadbalance", "directional", "adaptive"}
}

// distance is the shaft distance between a car and a floor. Fractional while
// the car is between floors.
func distance(car types.CarInfo, floor int) float64 {
	return math.Abs(car.Floor() - float64(floor))
}

// conflicts reports whether serving dir would fight the car's committed
// direction. Stopped cars never conflict.
func conflicts(car types.CarInfo, dir types.Direction) bool {
	d := car.Direction()
	return d != types.DirStopped && d != dir
}

func head(queue []int) (int, bool) {
	if len(queue) == 0 {
		return 0, false
	}
	return queue[0], true
}
