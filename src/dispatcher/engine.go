package dispatcher

import (
	"log/slog"
	"slices"

	"elevsched/src/strategy"
	"elevsched/src/types"
)

// Engine assigns passenger calls to cars and keeps one target queue per
// car. It owns no kinematics: cars report position and load through their
// accessors and receive floor commands back. The engine is single-threaded;
// hosts deliver events from one goroutine and every handler runs to
// completion before the next.
type Engine struct {
	strat    strategy.Strategy
	obs      Observer
	cars     []types.Car
	ordinals map[int]int // car id -> roster index
	queues   []*TargetQueue
	advisory []types.Direction
	backlog  *Backlog
	calls    map[int]callRecord // passenger id -> open call
	floors   int
	now      int
}

// callRecord remembers what a passenger asked for and when, for wait
// accounting.
type callRecord struct {
	floor int
	dir   types.Direction
	tick  int
}

// New builds an engine around a strategy. obs may be nil.
func New(strat strategy.Strategy, obs Observer) *Engine {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Engine{
		strat:   strat,
		obs:     obs,
		backlog: NewBacklog(),
		calls:   make(map[int]callRecord),
	}
}

// Init takes the car roster and floor count, resets all dispatch state and
// sends every car to its start position. Roster order is the tie-break
// order for assignment.
func (e *Engine) Init(cars []types.Car, numFloors int) {
	e.cars = slices.Clone(cars)
	e.floors = numFloors
	e.ordinals = make(map[int]int, len(cars))
	e.queues = make([]*TargetQueue, len(cars))
	e.advisory = make([]types.Direction, len(cars))
	e.backlog = NewBacklog()
	e.calls = make(map[int]callRecord)
	e.now = 0
	for i, car := range cars {
		e.ordinals[car.ID()] = i
		e.queues[i] = &TargetQueue{}
		e.command(car, e.strat.InitPosition(car.ID(), i))
	}
	slog.Info("dispatch ready", "strategy", e.strat.Name(), "cars", len(cars), "floors", numFloors)
}

// OnCall assigns the call to the cheapest car that can accept it, or defers
// it to the backlog. Equal costs go to the earliest car in roster order.
func (e *Engine) OnCall(p types.Passenger, floor int, dir types.Direction) {
	if floor < 0 || floor >= e.floors {
		slog.Error("call for floor outside the shaft", "passenger", p.ID(), "floor", floor)
		return
	}
	e.calls[p.ID()] = callRecord{floor: floor, dir: dir, tick: e.now}
	e.obs.CallReceived(p, floor, dir, e.now)
	if o, ok := e.strat.(strategy.CallObserver); ok {
		o.ObserveCall(floor, dir)
	}

	var best types.Car
	var bestCost float64
	for _, car := range e.cars {
		cost := e.strat.Cost(car, floor, dir)
		slog.Debug("cost", "car", car.ID(), "floor", floor, "dir", dir, "cost", cost)
		if !e.CanAccept(car, floor, dir) {
			continue
		}
		if best == nil || cost < bestCost {
			best, bestCost = car, cost
		}
	}
	if best == nil {
		e.backlog.Add(floor, dir)
		e.obs.CallDeferred(floor, dir)
		return
	}
	e.queues[e.ordinals[best.ID()]].Append(floor)
	e.obs.CallAssigned(best, p, floor, dir, bestCost)
	e.refreshTarget(best)
}

// CanAccept reports whether car may serve a call at floor going dir: it
// must have space, and a moving car must be heading toward the floor in the
// call's direction. Stopped cars accept anything with room.
func (e *Engine) CanAccept(car types.Car, floor int, dir types.Direction) bool {
	if car.Occupants() >= car.Capacity() {
		return false
	}
	switch car.Direction() {
	case types.DirUp:
		return dir == types.DirUp && car.Floor() <= float64(floor)
	case types.DirDown:
		return dir == types.DirDown && car.Floor() >= float64(floor)
	default:
		return true
	}
}

// OnIdle runs the backlog claim scan, then re-evaluates the car's target.
// Directions scan up before down; per direction only the nearest pending
// floor is tested; at most one claim happens per idle event.
func (e *Engine) OnIdle(car types.Car) {
	ord, ok := e.ordinal(car)
	if !ok {
		return
	}
	for _, dir := range []types.Direction{types.DirUp, types.DirDown} {
		floor, found := e.backlog.Nearest(car.Floor(), dir)
		if !found || !e.CanAccept(car, floor, dir) {
			continue
		}
		e.backlog.Remove(floor, dir)
		e.queues[ord].Append(floor)
		e.obs.BacklogClaimed(car, floor, dir)
		break
	}
	e.refreshTarget(car)
}

// OnStopped clears the floor from the car's queue and recomputes the
// advisory direction from the remaining head. The advisory is bookkeeping
// only; it never commands motion.
func (e *Engine) OnStopped(car types.Car, floor int) {
	ord, ok := e.ordinal(car)
	if !ok {
		return
	}
	e.queues[ord].Remove(floor)
	e.advisory[ord] = types.DirStopped
	if next, hasNext := e.queues[ord].Head(); hasNext {
		e.advisory[ord] = types.DirectionOf(floor, next)
	}
	e.obs.Stopped(car, floor)
}

// OnBoard queues the passenger's destination and settles wait accounting.
// The car gets its next commitment immediately rather than waiting for the
// next idle event.
func (e *Engine) OnBoard(car types.Car, p types.Passenger) {
	ord, ok := e.ordinal(car)
	if !ok {
		return
	}
	e.queues[ord].Append(p.Destination())
	wait := 0
	if rec, open := e.calls[p.ID()]; open {
		wait = e.now - rec.tick
		delete(e.calls, p.ID())
	}
	e.obs.Boarded(car, p, wait)
	e.refreshTarget(car)
}

// OnAlight drops the passenger's destination from the car's queue. The stop
// itself usually already removed it; the remove is then a no-op.
func (e *Engine) OnAlight(car types.Car, p types.Passenger, floor int) {
	ord, ok := e.ordinal(car)
	if !ok {
		return
	}
	e.queues[ord].Remove(p.Destination())
	e.obs.Alighted(car, p, floor)
}

// OnPassing and OnApproaching are observational; dispatch state does not
// change while a car is between floors.
func (e *Engine) OnPassing(car types.Car, floor int, dir types.Direction) {
	e.obs.Passing(car, floor, dir)
}

func (e *Engine) OnApproaching(car types.Car, floor int, dir types.Direction) {
	e.obs.Approaching(car, floor, dir)
}

// TickStart advances the engine clock. Waits are measured in ticks between
// this clock at call time and at boarding.
func (e *Engine) TickStart(tick int) { e.now = tick }

// TickEnd closes an event batch. No dispatch state changes here.
func (e *Engine) TickEnd(tick int) {}

// Done marks the end of a run.
func (e *Engine) Done(tick int) {
	e.now = tick
	e.obs.Done(tick)
}

// refreshTarget re-runs idle-target selection against the car's queue and
// issues the resulting command, if any. Strategies are idempotent over
// unchanged queues, so repeated calls are harmless.
func (e *Engine) refreshTarget(car types.Car) {
	ord, ok := e.ordinal(car)
	if !ok {
		return
	}
	if cmd, ok := e.strat.IdleTarget(car, e.queues[ord].Floors()); ok {
		e.command(car, cmd)
	}
}

func (e *Engine) command(car types.Car, cmd types.Command) {
	car.GoToFloor(cmd.Floor, cmd.Immediate)
	e.obs.CommandIssued(car, cmd.Floor, cmd.Immediate)
}

func (e *Engine) ordinal(car types.Car) (int, bool) {
	ord, ok := e.ordinals[car.ID()]
	if !ok {
		slog.Error("event for unknown car", "car", car.ID())
	}
	return ord, ok
}

// QueueFloors returns a copy of the car's queue in visit order.
func (e *Engine) QueueFloors(carID int) []int {
	if ord, ok := e.ordinals[carID]; ok {
		return e.queues[ord].Floors()
	}
	return nil
}

// Backlog returns the pending floors per direction in ascending order.
func (e *Engine) Backlog() (up, down []int) {
	return e.backlog.Floors(types.DirUp), e.backlog.Floors(types.DirDown)
}

// Advisory returns the bookkeeping direction recorded at the car's last
// stop.
func (e *Engine) Advisory(carID int) types.Direction {
	if ord, ok := e.ordinals[carID]; ok {
		return e.advisory[ord]
	}
	return types.DirStopped
}

func (e *Engine) StrategyName() string { return e.strat.Name() }
