package sim

import "elevsched/src/types"

// TripPhase is where a passenger currently is in their trip.
type TripPhase int

const (
	Waiting TripPhase = iota
	Riding
	Done
)

func (p TripPhase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Riding:
		return "riding"
	default:
		return "done"
	}
}

// Passenger is one trip from origin to destination. The simulator moves it
// through Waiting, Riding and Done and records the ticks of each transition.
type Passenger struct {
	id          int
	origin      int
	destination int
	phase       TripPhase
	callTick    int
	boardTick   int
	alightTick  int
	car         int
}

func newPassenger(id, origin, destination, callTick int) *Passenger {
	return &Passenger{
		id:          id,
		origin:      origin,
		destination: destination,
		callTick:    callTick,
		car:         -1,
	}
}

func (p *Passenger) ID() int          { return p.id }
func (p *Passenger) Origin() int      { return p.origin }
func (p *Passenger) Destination() int { return p.destination }
func (p *Passenger) Phase() TripPhase { return p.phase }

// Direction is the travel direction of the requested trip.
func (p *Passenger) Direction() types.Direction {
	return types.DirectionOf(p.origin, p.destination)
}

func (p *Passenger) board(carID, tick int) {
	p.phase = Riding
	p.car = carID
	p.boardTick = tick
}

func (p *Passenger) alight(tick int) {
	p.phase = Done
	p.alightTick = tick
}
