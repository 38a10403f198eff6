package sim

import (
	"math"

	"elevsched/src/types"
	"elevsched/src/utils"
)

// Car is a simulated elevator car. It owns the kinematics the dispatcher
// never computes: fractional position, the committed target and the door
// dwell. All mutation happens on the simulator goroutine.
type Car struct {
	id        int
	top       int
	pos       float64
	target    int
	speed     float64 // floors per tick, at most 1
	dwell     int     // ticks the doors stay open after a stop
	dwellLeft int
	occupants int
	capacity  int
}

func newCar(id, startFloor, topFloor, capacity int, speed float64, dwell int) *Car {
	return &Car{
		id:       id,
		top:      topFloor,
		pos:      float64(startFloor),
		target:   types.NoTarget,
		speed:    speed,
		dwell:    dwell,
		capacity: capacity,
	}
}

func (c *Car) ID() int          { return c.id }
func (c *Car) Floor() float64   { return c.pos }
func (c *Car) TargetFloor() int { return c.target }
func (c *Car) Occupants() int   { return c.occupants }
func (c *Car) Capacity() int    { return c.capacity }

// Direction is the committed direction toward the outstanding target, or
// DirStopped when there is none. A dwelling car with a queued target is
// already committed.
func (c *Car) Direction() types.Direction {
	if c.target == types.NoTarget {
		return types.DirStopped
	}
	switch {
	case float64(c.target) > c.pos:
		return types.DirUp
	case float64(c.target) < c.pos:
		return types.DirDown
	default:
		return types.DirStopped
	}
}

// GoToFloor commits the car to a floor, clamped into the shaft. Immediate
// commands cancel an in-progress door dwell; regular commands take effect
// once the doors have closed.
func (c *Car) GoToFloor(floor int, immediate bool) {
	c.target = utils.Clamp(floor, 0, c.top)
	if immediate {
		c.dwellLeft = 0
	}
}

// stepResult reports what a car did during one tick. Floors are -1 when the
// field does not apply.
type stepResult struct {
	passed      int
	approaching int
	stopped     int
	idle        bool
}

// step advances the car one tick.
//   - doors open: count the dwell down, nothing else happens
//   - no target: report idle
//   - otherwise move toward the target, reporting crossed floors,
//     target proximity and arrival
func (c *Car) step() stepResult {
	res := stepResult{passed: -1, approaching: -1, stopped: -1}
	if c.dwellLeft > 0 {
		c.dwellLeft--
		return res
	}
	if c.target == types.NoTarget {
		res.idle = true
		return res
	}
	target := float64(c.target)
	old := c.pos
	switch {
	case target > old:
		c.pos = math.Min(old+c.speed, target)
	case target < old:
		c.pos = math.Max(old-c.speed, target)
	}
	if c.pos == target {
		res.stopped = c.target
		c.target = types.NoTarget
		c.dwellLeft = c.dwell
		return res
	}
	if f, ok := crossed(old, c.pos); ok {
		res.passed = f
	}
	if math.Abs(target-c.pos) <= 1 && math.Abs(target-old) > 1 {
		res.approaching = c.target
	}
	return res
}

// crossed returns the integer floor reached or passed when moving from a to
// b. Speeds are at most one floor per tick, so at most one floor is crossed.
func crossed(a, b float64) (int, bool) {
	if b > a {
		f := int(math.Floor(b))
		if float64(f) > a {
			return f, true
		}
	} else {
		f := int(math.Ceil(b))
		if float64(f) < a {
			return f, true
		}
	}
	return 0, false
}
