package dispatcher

import (
	"log/slog"

	"elevsched/src/types"
	"elevsched/src/utils"
)

// Observer receives notifications after the engine commits a state
// transition. Decisions never depend on observers, and implementations must
// not call back into the engine.
type Observer interface {
	CallReceived(p types.Passenger, floor int, dir types.Direction, tick int)
	CallAssigned(car types.Car, p types.Passenger, floor int, dir types.Direction, cost float64)
	CallDeferred(floor int, dir types.Direction)
	BacklogClaimed(car types.Car, floor int, dir types.Direction)
	CommandIssued(car types.Car, floor int, immediate bool)
	Stopped(car types.Car, floor int)
	Boarded(car types.Car, p types.Passenger, waitTicks int)
	Alighted(car types.Car, p types.Passenger, floor int)
	Passing(car types.Car, floor int, dir types.Direction)
	Approaching(car types.Car, floor int, dir types.Direction)
	Done(tick int)
}

// NopObserver implements Observer with no-ops, for embedding.
type NopObserver struct{}

func (NopObserver) CallReceived(types.Passenger, int, types.Direction, int)                {}
func (NopObserver) CallAssigned(types.Car, types.Passenger, int, types.Direction, float64) {}
func (NopObserver) CallDeferred(int, types.Direction)                                      {}
func (NopObserver) BacklogClaimed(types.Car, int, types.Direction)                         {}
func (NopObserver) CommandIssued(types.Car, int, bool)                                     {}
func (NopObserver) Stopped(types.Car, int)                                                 {}
func (NopObserver) Boarded(types.Car, types.Passenger, int)                                {}
func (NopObserver) Alighted(types.Car, types.Passenger, int)                               {}
func (NopObserver) Passing(types.Car, int, types.Direction)                                {}
func (NopObserver) Approaching(types.Car, int, types.Direction)                            {}
func (NopObserver) Done(int)                                                               {}

// MultiObserver fans out every notification in order.
type MultiObserver []Observer

func (m MultiObserver) CallReceived(p types.Passenger, floor int, dir types.Direction, tick int) {
	for _, o := range m {
		o.CallReceived(p, floor, dir, tick)
	}
}

func (m MultiObserver) CallAssigned(car types.Car, p types.Passenger, floor int, dir types.Direction, cost float64) {
	for _, o := range m {
		o.CallAssigned(car, p, floor, dir, cost)
	}
}

func (m MultiObserver) CallDeferred(floor int, dir types.Direction) {
	for _, o := range m {
		o.CallDeferred(floor, dir)
	}
}

func (m MultiObserver) BacklogClaimed(car types.Car, floor int, dir types.Direction) {
	for _, o := range m {
		o.BacklogClaimed(car, floor, dir)
	}
}

func (m MultiObserver) CommandIssued(car types.Car, floor int, immediate bool) {
	for _, o := range m {
		o.CommandIssued(car, floor, immediate)
	}
}

func (m MultiObserver) Stopped(car types.Car, floor int) {
	for _, o := range m {
		o.Stopped(car, floor)
	}
}

func (m MultiObserver) Boarded(car types.Car, p types.Passenger, waitTicks int) {
	for _, o := range m {
		o.Boarded(car, p, waitTicks)
	}
}

func (m MultiObserver) Alighted(car types.Car, p types.Passenger, floor int) {
	for _, o := range m {
		o.Alighted(car, p, floor)
	}
}

func (m MultiObserver) Passing(car types.Car, floor int, dir types.Direction) {
	for _, o := range m {
		o.Passing(car, floor, dir)
	}
}

func (m MultiObserver) Approaching(car types.Car, floor int, dir types.Direction) {
	for _, o := range m {
		o.Approaching(car, floor, dir)
	}
}

func (m MultiObserver) Done(tick int) {
	for _, o := range m {
		o.Done(tick)
	}
}

// LogObserver writes transitions to slog. Assignment decisions land at
// Info, per-tick movement noise at Debug.
type LogObserver struct{}

func (LogObserver) CallReceived(p types.Passenger, floor int, dir types.Direction, tick int) {
	slog.Info("call", "passenger", p.ID(), "at", utils.FormatCall(floor, dir), "tick", tick)
}

func (LogObserver) CallAssigned(car types.Car, p types.Passenger, floor int, dir types.Direction, cost float64) {
	slog.Info("assigned", "passenger", p.ID(), "car", car.ID(), "at", utils.FormatCall(floor, dir), "cost", cost)
}

func (LogObserver) CallDeferred(floor int, dir types.Direction) {
	slog.Info("deferred", "at", utils.FormatCall(floor, dir))
}

func (LogObserver) BacklogClaimed(car types.Car, floor int, dir types.Direction) {
	slog.Info("backlog claim", "car", car.ID(), "at", utils.FormatCall(floor, dir))
}

func (LogObserver) CommandIssued(car types.Car, floor int, immediate bool) {
	slog.Debug("command", "car", car.ID(), "floor", floor, "immediate", immediate)
}

func (LogObserver) Stopped(car types.Car, floor int) {
	slog.Debug("stopped", "car", car.ID(), "floor", floor)
}

func (LogObserver) Boarded(car types.Car, p types.Passenger, waitTicks int) {
	slog.Info("boarded", "passenger", p.ID(), "car", car.ID(), "wait", waitTicks)
}

func (LogObserver) Alighted(car types.Car, p types.Passenger, floor int) {
	slog.Info("alighted", "passenger", p.ID(), "car", car.ID(), "floor", floor)
}

func (LogObserver) Passing(car types.Car, floor int, dir types.Direction) {
	slog.Debug("passing", "car", car.ID(), "floor", floor, "dir", dir)
}

func (LogObserver) Approaching(car types.Car, floor int, dir types.Direction) {
	slog.Debug("approaching", "car", car.ID(), "floor", floor, "dir", dir)
}

func (LogObserver) Done(tick int) {
	slog.Info("run complete", "tick", tick)
}
