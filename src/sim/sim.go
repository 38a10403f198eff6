// Package sim is the in-process simulation host: it owns car kinematics,
// passenger lifecycles and the tick loop, and drives a Controller with one
// event at a time. The dispatch engine never sees any of the motion code,
// only the accessor interfaces and the event calls.
package sim

import (
	"log/slog"
	"math/rand"
	"os"
	"slices"
	"sync"
	"time"

	"elevsched/src/config"
	"elevsched/src/types"
	"elevsched/src/utils"
)

// Controller receives the simulation's lifecycle events, one call per event,
// always from the simulator goroutine. The dispatch engine implements it
// directly; the bridge server implements it by forwarding each event to a
// remote engine.
type Controller interface {
	Init(cars []types.Car, numFloors int)
	OnCall(p types.Passenger, floor int, dir types.Direction)
	OnIdle(car types.Car)
	OnStopped(car types.Car, floor int)
	OnBoard(car types.Car, p types.Passenger)
	OnAlight(car types.Car, p types.Passenger, floor int)
	OnPassing(car types.Car, floor int, dir types.Direction)
	OnApproaching(car types.Car, floor int, dir types.Direction)
	TickStart(tick int)
	TickEnd(tick int)
	Done(tick int)
}

// Inspector is implemented by controllers that can report dispatch state for
// status rendering. The local engine can; a bridge forwarder cannot, since
// that state lives on the remote side.
type Inspector interface {
	QueueFloors(carID int) []int
	Backlog() (up, down []int)
	Advisory(carID int) types.Direction
	StrategyName() string
}

type callRequest struct {
	origin      int
	destination int
}

// Simulator runs the discrete tick loop over a fixed car and floor roster.
// Scripted passengers arrive at their configured tick, random arrivals are
// drawn from a seeded source, and interactive arrivals come in through
// Inject. Everything observable happens in tick order on one goroutine.
type Simulator struct {
	TickRate    time.Duration // wall-clock pause between ticks, 0 runs flat out
	StatusEvery int           // ticks between status prints, 0 disables
	HoldOpen    bool          // keep ticking after every passenger is served

	ctrl   Controller
	floors int
	cars   []*Car
	riders [][]*Passenger

	roster   []*Passenger
	script   []config.PassengerSpec
	scripted int
	arrivals *config.ArrivalSpec
	rng      *rand.Rand
	spawned  int
	nextID   int

	ticks    int
	now      int
	injectCh chan callRequest
	statusCh chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New builds a simulator for the scenario with all cars parked at floor 0.
func New(scn config.Scenario, ctrl Controller) *Simulator {
	s := &Simulator{
		ctrl:     ctrl,
		floors:   scn.Floors,
		riders:   make([][]*Passenger, scn.Cars),
		script:   slices.Clone(scn.Passengers),
		arrivals: scn.Arrivals,
		ticks:    scn.Ticks,
		nextID:   1,
		injectCh: make(chan callRequest, config.InjectBacklog),
		statusCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
	for i := 0; i < scn.Cars; i++ {
		s.cars = append(s.cars, newCar(i, 0, scn.TopFloor(), scn.Capacity, scn.Speed, scn.DwellTicks))
	}
	slices.SortStableFunc(s.script, func(a, b config.PassengerSpec) int { return a.At - b.At })
	for _, p := range s.script {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	if s.arrivals != nil {
		s.rng = rand.New(rand.NewSource(s.arrivals.Seed))
	}
	return s
}

// Run drives the simulation until the tick budget runs out, every passenger
// is served, or Stop is called. It blocks and returns the final tick.
func (s *Simulator) Run() int {
	s.ctrl.Init(s.carRoster(), s.floors)
	for tick := 1; tick <= s.ticks; tick++ {
		if s.halted() {
			break
		}
		s.Step(tick)
		if !s.HoldOpen && s.allServed() {
			break
		}
		if s.TickRate > 0 {
			time.Sleep(s.TickRate)
		}
	}
	s.ctrl.Done(s.now)
	return s.now
}

// Step executes one tick: injected and scheduled arrivals first, then every
// car in roster order.
func (s *Simulator) Step(tick int) {
	s.now = tick
	s.ctrl.TickStart(tick)
	s.drainInputs(tick)
	s.spawnScripted(tick)
	s.spawnRandom(tick)
	for i, car := range s.cars {
		s.stepCar(i, car)
	}
	s.ctrl.TickEnd(tick)
	if s.StatusEvery > 0 && tick%s.StatusEvery == 0 {
		utils.PrintStatus(os.Stdout, s.Snapshot())
	}
}

// Inject schedules a passenger trip for the next tick. Safe to call from
// other goroutines; a full buffer drops the request.
func (s *Simulator) Inject(origin, destination int) {
	select {
	case s.injectCh <- callRequest{origin: origin, destination: destination}:
	default:
		slog.Warn("arrival dropped, injection buffer full", "origin", origin)
	}
}

// RequestStatus asks the simulator to print the status table at the next
// tick boundary.
func (s *Simulator) RequestStatus() {
	select {
	case s.statusCh <- struct{}{}:
	default:
	}
}

// Stop ends the run at the next tick boundary. Safe to call more than once
// and from other goroutines.
func (s *Simulator) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Simulator) halted() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

// Cars exposes the roster for hosts that need to apply remote commands.
func (s *Simulator) Cars() []*Car { return slices.Clone(s.cars) }

func (s *Simulator) Floors() int { return s.floors }

func (s *Simulator) carRoster() []types.Car {
	roster := make([]types.Car, len(s.cars))
	for i, car := range s.cars {
		roster[i] = car
	}
	return roster
}

func (s *Simulator) drainInputs(tick int) {
	for {
		select {
		case req := <-s.injectCh:
			s.spawn(req.origin, req.destination, tick)
		case <-s.statusCh:
			utils.PrintStatus(os.Stdout, s.Snapshot())
		default:
			return
		}
	}
}

func (s *Simulator) spawnScripted(tick int) {
	for s.scripted < len(s.script) && s.script[s.scripted].At <= tick {
		spec := s.script[s.scripted]
		s.scripted++
		p := newPassenger(spec.ID, spec.Origin, spec.Destination, tick)
		s.roster = append(s.roster, p)
		s.ctrl.OnCall(p, p.origin, p.Direction())
	}
}

// spawnRandom draws at most one extra passenger per tick until the arrival
// budget is spent. The seeded source keeps runs reproducible.
func (s *Simulator) spawnRandom(tick int) {
	if s.arrivals == nil || s.spawned >= s.arrivals.Count {
		return
	}
	if s.rng.Float64() >= s.arrivals.Rate {
		return
	}
	origin := s.rng.Intn(s.floors)
	destination := s.rng.Intn(s.floors - 1)
	if destination >= origin {
		destination++
	}
	s.spawned++
	s.spawn(origin, destination, tick)
}

func (s *Simulator) spawn(origin, destination, tick int) {
	if origin < 0 || origin >= s.floors || destination < 0 || destination >= s.floors {
		slog.Warn("ignoring trip outside the shaft", "origin", origin, "destination", destination)
		return
	}
	if origin == destination {
		slog.Warn("ignoring trip with equal origin and destination", "floor", origin)
		return
	}
	p := newPassenger(s.nextID, origin, destination, tick)
	s.nextID++
	s.roster = append(s.roster, p)
	s.ctrl.OnCall(p, p.origin, p.Direction())
}

func (s *Simulator) stepCar(idx int, car *Car) {
	res := car.step()
	switch {
	case res.stopped >= 0:
		s.ctrl.OnStopped(car, res.stopped)
		s.alightAt(idx, car, res.stopped)
		s.boardAt(idx, car, res.stopped)
	case res.idle:
		s.ctrl.OnIdle(car)
	default:
		if res.passed >= 0 {
			s.ctrl.OnPassing(car, res.passed, car.Direction())
		}
		if res.approaching >= 0 {
			s.ctrl.OnApproaching(car, res.approaching, car.Direction())
		}
	}
}

// alightAt drops riders whose destination is this floor, in boarding order.
func (s *Simulator) alightAt(idx int, car *Car, floor int) {
	kept := s.riders[idx][:0]
	for _, p := range s.riders[idx] {
		if p.destination != floor {
			kept = append(kept, p)
			continue
		}
		p.alight(s.now)
		car.occupants--
		s.ctrl.OnAlight(car, p, floor)
	}
	s.riders[idx] = kept
}

// boardAt admits waiting passengers at the floor, oldest call first, while
// capacity lasts. The host boards without a direction filter. Whoever is
// left on the floor presses the call button again, so a filled car cannot
// strand them: the full car fails CanAccept and the call lands elsewhere or
// in the backlog.
func (s *Simulator) boardAt(idx int, car *Car, floor int) {
	for _, p := range s.roster {
		if p.phase != Waiting || p.origin != floor {
			continue
		}
		if car.occupants >= car.capacity {
			break
		}
		p.board(car.id, s.now)
		car.occupants++
		s.riders[idx] = append(s.riders[idx], p)
		s.ctrl.OnBoard(car, p)
	}
	for _, p := range s.roster {
		if p.phase == Waiting && p.origin == floor {
			s.ctrl.OnCall(p, p.origin, p.Direction())
		}
	}
}

// allServed reports whether every passenger that will ever exist is done.
func (s *Simulator) allServed() bool {
	if s.scripted < len(s.script) {
		return false
	}
	if s.arrivals != nil && s.spawned < s.arrivals.Count {
		return false
	}
	for _, p := range s.roster {
		if p.phase != Done {
			return false
		}
	}
	return true
}

// Snapshot assembles the status view of the whole system. Dispatch state is
// included when the controller can report it.
func (s *Simulator) Snapshot() types.SystemSnapshot {
	snap := types.SystemSnapshot{Tick: s.now}
	for _, car := range s.cars {
		snap.Cars = append(snap.Cars, types.StateOf(car))
	}
	if insp, ok := s.ctrl.(Inspector); ok {
		snap.Strategy = insp.StrategyName()
		snap.BacklogUp, snap.BacklogDown = insp.Backlog()
		for _, car := range s.cars {
			snap.Queues = append(snap.Queues, insp.QueueFloors(car.id))
			snap.Advisory = append(snap.Advisory, insp.Advisory(car.id))
		}
	}
	for _, p := range s.roster {
		switch p.phase {
		case Waiting:
			snap.Waiting++
		case Riding:
			snap.Riding++
		default:
			snap.Served++
		}
	}
	return snap
}
