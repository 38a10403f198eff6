package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tiendc/go-deepcopy"
	"github.com/xtaci/kcp-go/v5"

	"elevsched/src/config"
	"elevsched/src/sim"
	"elevsched/src/timer"
	"elevsched/src/types"
)

// Server is the simulation side of the bridge. It accepts one client at a
// time and replays the scenario against it: every simulation event streams
// out over the session, every command the remote engine sends back is
// applied at the next tick boundary.
type Server struct {
	TickRate    time.Duration // wall-clock pause per tick; remote mode needs pacing
	StatusEvery int           // ticks between local status prints, 0 disables
	HoldOpen    bool          // keep the session ticking after every passenger is served

	scn config.Scenario

	mu  sync.Mutex
	cur *sim.Simulator
	ln  *kcp.Listener

	closing atomic.Bool
}

func NewServer(scn config.Scenario) *Server {
	return &Server{scn: scn, TickRate: config.DefaultTickRate}
}

// ListenAndServe accepts clients on addr until Stop is called. Sessions run
// one after the other; every client gets a fresh run of the scenario.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := kcp.ListenWithOptions(addr, nil, 0, 0)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	slog.Info("bridge listening", "addr", addr)

	for {
		sess, err := ln.AcceptKCP()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.serveSession(sess)
	}
}

// Inject schedules an interactive trip on the running session, if any.
func (s *Server) Inject(origin, destination int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		slog.Warn("no client session, arrival dropped", "origin", origin)
		return
	}
	s.cur.Inject(origin, destination)
}

// RequestStatus prints the status table of the running session, if any.
func (s *Server) RequestStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		s.cur.RequestStatus()
	}
}

// Stop ends the running session and the accept loop.
func (s *Server) Stop() {
	s.closing.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		s.cur.Stop()
	}
	if s.ln != nil {
		s.ln.Close()
	}
}

func (s *Server) setCurrent(run *sim.Simulator) {
	s.mu.Lock()
	s.cur = run
	s.mu.Unlock()
}

func (s *Server) serveSession(sess *kcp.UDPSession) {
	defer sess.Close()

	f := newForwarder(sess)
	hello, err := f.awaitHello()
	if err != nil {
		slog.Warn("handshake failed", "remote", sess.RemoteAddr(), "error", err)
		close(f.wdAction)
		return
	}
	slog.Info("client connected", "name", hello.Name, "remote", sess.RemoteAddr())

	// Fresh scenario per session: the passenger script and arrival plan
	// must not leak between runs.
	scn := new(config.Scenario)
	if err := deepcopy.Copy(scn, &s.scn); err != nil {
		panic(err)
	}

	run := sim.New(*scn, f)
	run.TickRate = s.TickRate
	run.StatusEvery = s.StatusEvery
	run.HoldOpen = s.HoldOpen
	f.stop = run.Stop

	s.setCurrent(run)
	defer s.setCurrent(nil)

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		f.readLoop()
	}()

	final := run.Run()
	f.send(KindBye, Bye{Reason: "run complete"})
	slog.Info("session complete", "name", hello.Name, "ticks", final)

	sess.Close()
	<-readerDone
	close(f.wdAction)
}

// forwarder implements sim.Controller by shipping every event over the
// session. It is the whole dispatch side the simulator sees in serve mode;
// the decisions happen in the remote engine.
type forwarder struct {
	sess *kcp.UDPSession
	enc  *json.Encoder
	dec  *json.Decoder

	encMu sync.Mutex
	seq   atomic.Uint64

	tick   int
	roster []types.Car
	cars   map[int]types.Car
	cmds   chan Command

	wdAction chan timer.Action
	stop     func()
	closed   atomic.Bool
}

var _ sim.Controller = (*forwarder)(nil)

func newForwarder(sess *kcp.UDPSession) *forwarder {
	f := &forwarder{
		sess:     sess,
		enc:      json.NewEncoder(sess),
		dec:      json.NewDecoder(sess),
		cmds:     make(chan Command, config.CommandBacklog),
		wdAction: make(chan timer.Action),
		stop:     func() {},
	}
	timeoutCh := make(chan bool)
	go timer.Watchdog(config.WatchdogTimeout, timeoutCh, f.wdAction)
	go func() {
		for range timeoutCh {
			slog.Warn("client went silent, closing session")
			f.closed.Store(true)
			f.stop()
			f.sess.Close()
		}
	}()
	return f
}

// awaitHello blocks for the opening message of the session. A client that
// stays quiet past the watchdog timeout is cut off.
func (f *forwarder) awaitHello() (Hello, error) {
	f.sess.SetReadDeadline(time.Now().Add(config.WatchdogTimeout))
	defer f.sess.SetReadDeadline(time.Time{})

	var env Envelope
	if err := f.dec.Decode(&env); err != nil {
		return Hello{}, err
	}
	if env.Kind != KindHello {
		return Hello{}, fmt.Errorf("expected hello, got %q", env.Kind)
	}
	var hello Hello
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return Hello{}, fmt.Errorf("bad hello payload: %w", err)
	}
	return hello, nil
}

// readLoop receives commands until the session dies or the client leaves.
// Every message feeds the watchdog.
func (f *forwarder) readLoop() {
	for {
		var env Envelope
		if err := f.dec.Decode(&env); err != nil {
			if !f.closed.Load() {
				slog.Debug("client read ended", "error", err)
			}
			return
		}
		f.wdAction <- timer.Reset

		switch env.Kind {
		case KindCommand:
			var cmd Command
			if err := json.Unmarshal(env.Data, &cmd); err != nil {
				slog.Error("bad command payload", "error", err)
				continue
			}
			select {
			case f.cmds <- cmd:
			default:
				slog.Warn("command buffer full, dropping", "car", cmd.Car, "floor", cmd.Floor)
			}
		case KindPing:
			// Nothing to do; the watchdog reset above is the payload.
		case KindBye:
			var bye Bye
			_ = json.Unmarshal(env.Data, &bye)
			slog.Info("client left", "reason", bye.Reason)
			f.closed.Store(true)
			f.stop()
			return
		default:
			slog.Warn("unexpected message", "kind", env.Kind)
		}
	}
}

func (f *forwarder) send(kind Kind, payload any) {
	env, err := seal(kind, f.seq.Add(1), payload)
	if err != nil {
		slog.Error("encode failed", "kind", kind, "error", err)
		return
	}
	f.encMu.Lock()
	err = f.enc.Encode(env)
	f.encMu.Unlock()
	if err != nil && f.closed.CompareAndSwap(false, true) {
		slog.Warn("client write failed, ending run", "error", err)
		f.stop()
	}
}

func (f *forwarder) event(ev Event) {
	ev.Tick = f.tick
	ev.Cars = f.carStates()
	f.send(KindEvent, ev)
}

func (f *forwarder) carStates() []types.CarState {
	states := make([]types.CarState, len(f.roster))
	for i, car := range f.roster {
		states[i] = types.StateOf(car)
	}
	return states
}

func (f *forwarder) Init(cars []types.Car, numFloors int) {
	f.roster = cars
	f.cars = make(map[int]types.Car, len(cars))
	for _, car := range cars {
		f.cars[car.ID()] = car
	}
	f.send(KindInit, Init{Floors: numFloors, Cars: f.carStates()})
}

// TickStart applies the commands buffered since the previous tick, then
// forwards the tick boundary. Commands always take effect on a boundary so
// the remote engine never observes a car retargeted mid-step.
func (f *forwarder) TickStart(tick int) {
	f.tick = tick
	for {
		select {
		case cmd := <-f.cmds:
			f.apply(cmd)
		default:
			f.event(Event{Type: EvTickStart, Car: -1, Floor: -1})
			return
		}
	}
}

func (f *forwarder) apply(cmd Command) {
	car, ok := f.cars[cmd.Car]
	if !ok {
		slog.Warn("command for unknown car", "car", cmd.Car)
		return
	}
	car.GoToFloor(cmd.Floor, cmd.Immediate)
	slog.Debug("applied remote command", "car", cmd.Car, "floor", cmd.Floor, "immediate", cmd.Immediate)
}

func (f *forwarder) OnCall(p types.Passenger, floor int, dir types.Direction) {
	f.event(Event{Type: EvCall, Car: -1, Floor: floor, Dir: dir, Passenger: passengerInfo(p)})
}

func (f *forwarder) OnIdle(car types.Car) {
	f.event(Event{Type: EvIdle, Car: car.ID(), Floor: -1})
}

func (f *forwarder) OnStopped(car types.Car, floor int) {
	f.event(Event{Type: EvStopped, Car: car.ID(), Floor: floor})
}

func (f *forwarder) OnBoard(car types.Car, p types.Passenger) {
	f.event(Event{Type: EvBoard, Car: car.ID(), Floor: -1, Passenger: passengerInfo(p)})
}

func (f *forwarder) OnAlight(car types.Car, p types.Passenger, floor int) {
	f.event(Event{Type: EvAlight, Car: car.ID(), Floor: floor, Passenger: passengerInfo(p)})
}

func (f *forwarder) OnPassing(car types.Car, floor int, dir types.Direction) {
	f.event(Event{Type: EvPassing, Car: car.ID(), Floor: floor, Dir: dir})
}

func (f *forwarder) OnApproaching(car types.Car, floor int, dir types.Direction) {
	f.event(Event{Type: EvApproaching, Car: car.ID(), Floor: floor, Dir: dir})
}

func (f *forwarder) TickEnd(tick int) {
	f.tick = tick
	f.event(Event{Type: EvTickEnd, Car: -1, Floor: -1})
}

func (f *forwarder) Done(tick int) {
	f.tick = tick
	f.event(Event{Type: EvDone, Car: -1, Floor: -1})
}

func passengerInfo(p types.Passenger) *PassengerInfo {
	return &PassengerInfo{ID: p.ID(), Origin: p.Origin(), Destination: p.Destination()}
}
