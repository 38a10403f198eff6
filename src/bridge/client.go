package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xtaci/kcp-go/v5"
	"github.com/xyproto/randomstring"

	"elevsched/src/config"
	"elevsched/src/dispatcher"
	"elevsched/src/stats"
	"elevsched/src/strategy"
	"elevsched/src/timer"
	"elevsched/src/types"
)

// Connect runs the dispatch engine against a remote simulation at addr. The
// engine works on mirror cars fed from the server's event stream; every
// command they issue travels back over the session. Blocks until the run
// completes or the session dies.
func Connect(addr, name, strategyName string) error {
	if name == "" {
		name = randomstring.EnglishFrequencyString(10)
		slog.Info("no client name given, generated one", "name", name)
	}
	conn, err := kcp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	c := &client{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		dec:     json.NewDecoder(conn),
		mirrors: make(map[int]*mirrorCar),
		done:    make(chan struct{}),
	}
	if err := c.send(KindHello, Hello{Name: name}); err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	init, err := c.awaitInit()
	if err != nil {
		return fmt.Errorf("awaiting init: %w", err)
	}
	slog.Info("connected", "addr", addr, "floors", init.Floors, "cars", len(init.Cars))

	strat, err := strategy.New(strategyName, init.Floors-1)
	if err != nil {
		return err
	}
	collector := stats.NewCollector()
	engine := dispatcher.New(strat, dispatcher.MultiObserver{dispatcher.LogObserver{}, collector})

	roster := make([]types.Car, len(init.Cars))
	for i, cs := range init.Cars {
		m := &mirrorCar{state: cs, send: c.sendCommand}
		c.mirrors[cs.ID] = m
		roster[i] = m
	}
	engine.Init(roster, init.Floors)

	c.armWatchdog()
	defer close(c.wdAction)
	go c.pingLoop()

	return c.eventLoop(engine, collector)
}

// client holds one session against a bridge server. The event loop runs on
// the caller's goroutine; pings and the watchdog run beside it, so writes
// go through one mutex-guarded encoder.
type client struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder

	encMu sync.Mutex
	seq   atomic.Uint64

	mirrors  map[int]*mirrorCar
	done     chan struct{}
	wdAction chan timer.Action
}

func (c *client) send(kind Kind, payload any) error {
	env, err := seal(kind, c.seq.Add(1), payload)
	if err != nil {
		return err
	}
	c.encMu.Lock()
	defer c.encMu.Unlock()
	return c.enc.Encode(env)
}

func (c *client) sendCommand(cmd Command) {
	if err := c.send(KindCommand, cmd); err != nil {
		slog.Warn("command lost, session write failed", "car", cmd.Car, "floor", cmd.Floor, "error", err)
	}
}

// awaitInit blocks for the server's answer to hello: the floor count and
// the car roster this client will mirror.
func (c *client) awaitInit() (Init, error) {
	c.conn.SetReadDeadline(time.Now().Add(config.WatchdogTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	var env Envelope
	if err := c.dec.Decode(&env); err != nil {
		return Init{}, err
	}
	if env.Kind != KindInit {
		return Init{}, fmt.Errorf("expected init, got %q", env.Kind)
	}
	var init Init
	if err := json.Unmarshal(env.Data, &init); err != nil {
		return Init{}, fmt.Errorf("bad init payload: %w", err)
	}
	if init.Floors < 2 || len(init.Cars) == 0 {
		return Init{}, fmt.Errorf("unusable roster: %d floors, %d cars", init.Floors, len(init.Cars))
	}
	return init, nil
}

func (c *client) armWatchdog() {
	c.wdAction = make(chan timer.Action)
	timeoutCh := make(chan bool)
	go timer.Watchdog(config.WatchdogTimeout, timeoutCh, c.wdAction)
	go func() {
		for range timeoutCh {
			slog.Warn("server went silent, closing session")
			c.conn.Close()
		}
	}()
}

// pingLoop keeps the server's watchdog fed between commands; the client
// otherwise writes nothing while cars are en route.
func (c *client) pingLoop() {
	t := time.NewTicker(config.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if err := c.send(KindPing, struct{}{}); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// eventLoop feeds the engine one event at a time, in the order the server
// emitted them. Car mirrors are refreshed from each event's state snapshot
// before the engine sees it.
func (c *client) eventLoop(engine *dispatcher.Engine, collector *stats.Collector) error {
	defer close(c.done)
	finished := false
	for {
		var env Envelope
		if err := c.dec.Decode(&env); err != nil {
			if finished {
				return nil
			}
			return fmt.Errorf("session read: %w", err)
		}
		c.wdAction <- timer.Reset

		switch env.Kind {
		case KindEvent:
			var ev Event
			if err := json.Unmarshal(env.Data, &ev); err != nil {
				slog.Error("bad event payload", "error", err)
				continue
			}
			c.applyStates(ev.Cars)
			c.dispatch(engine, ev)
			if ev.Type == EvDone {
				finished = true
				fmt.Print(collector.Summary())
			}
		case KindBye:
			var bye Bye
			_ = json.Unmarshal(env.Data, &bye)
			slog.Info("server closed the session", "reason", bye.Reason)
			if !finished {
				return fmt.Errorf("session ended early: %s", bye.Reason)
			}
			return nil
		default:
			slog.Warn("unexpected message", "kind", env.Kind)
		}
	}
}

func (c *client) applyStates(states []types.CarState) {
	for _, cs := range states {
		if m, ok := c.mirrors[cs.ID]; ok {
			m.state = cs
		}
	}
}

func (c *client) dispatch(engine *dispatcher.Engine, ev Event) {
	car := c.mirrors[ev.Car]
	switch ev.Type {
	case EvTickStart:
		engine.TickStart(ev.Tick)
	case EvTickEnd:
		engine.TickEnd(ev.Tick)
	case EvDone:
		engine.Done(ev.Tick)
	case EvCall:
		if ev.Passenger == nil {
			slog.Error("call event without passenger")
			return
		}
		engine.OnCall(remotePassenger{info: *ev.Passenger}, ev.Floor, ev.Dir)
	case EvIdle:
		if car != nil {
			engine.OnIdle(car)
		}
	case EvStopped:
		if car != nil {
			engine.OnStopped(car, ev.Floor)
		}
	case EvBoard:
		if car != nil && ev.Passenger != nil {
			engine.OnBoard(car, remotePassenger{info: *ev.Passenger})
		}
	case EvAlight:
		if car != nil && ev.Passenger != nil {
			engine.OnAlight(car, remotePassenger{info: *ev.Passenger}, ev.Floor)
		}
	case EvPassing:
		if car != nil {
			engine.OnPassing(car, ev.Floor, ev.Dir)
		}
	case EvApproaching:
		if car != nil {
			engine.OnApproaching(car, ev.Floor, ev.Dir)
		}
	default:
		slog.Warn("unknown event type", "type", ev.Type)
	}
}

// mirrorCar is the client-side stand-in for a remote car. Accessors read
// the latest state snapshot; GoToFloor turns into a command message, which
// the server applies at its next tick boundary.
type mirrorCar struct {
	state types.CarState
	send  func(Command)
}

var _ types.Car = (*mirrorCar)(nil)

func (m *mirrorCar) ID() int                    { return m.state.ID }
func (m *mirrorCar) Floor() float64             { return m.state.Floor }
func (m *mirrorCar) TargetFloor() int           { return m.state.Target }
func (m *mirrorCar) Direction() types.Direction { return m.state.Dir }
func (m *mirrorCar) Occupants() int             { return m.state.Occupants }
func (m *mirrorCar) Capacity() int              { return m.state.Capacity }

func (m *mirrorCar) GoToFloor(floor int, immediate bool) {
	m.send(Command{Car: m.state.ID, Floor: floor, Immediate: immediate})
}

// remotePassenger adapts the wire form to the accessor interface the
// engine consumes.
type remotePassenger struct {
	info PassengerInfo
}

var _ types.Passenger = remotePassenger{}

func (p remotePassenger) ID() int          { return p.info.ID }
func (p remotePassenger) Origin() int      { return p.info.Origin }
func (p remotePassenger) Destination() int { return p.info.Destination }
