package types

// Direction is a travel direction. The zero value is DirStopped.
type Direction int

const (
	DirUp      Direction = 1
	DirDown    Direction = -1
	DirStopped Direction = 0
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "stopped"
	}
}

// DirectionOf gives the travel direction of a trip from origin to
// destination. Equal floors give DirStopped.
func DirectionOf(origin, destination int) Direction {
	switch {
	case destination > origin:
		return DirUp
	case destination < origin:
		return DirDown
	default:
		return DirStopped
	}
}

// Command directs a car toward a floor. Immediate overrides any motion in
// progress and is only set on initialization commands.
type Command struct {
	Floor     int
	Immediate bool
}

// CarInfo is the read-only view of a car that cost policies and the
// dispatcher see. Floor is fractional while the car is between floors.
// TargetFloor is -1 when the car has no outstanding command.
type CarInfo interface {
	ID() int
	Floor() float64
	TargetFloor() int
	Direction() Direction
	Occupants() int
	Capacity() int
}

// Car extends CarInfo with the command surface hosts expose to the
// dispatcher. GoToFloor must be safe to repeat with unchanged arguments.
type Car interface {
	CarInfo
	GoToFloor(floor int, immediate bool)
}

// Passenger is a request's origin/destination pair with a stable id.
type Passenger interface {
	ID() int
	Origin() int
	Destination() int
}

// NoTarget is the TargetFloor value of a car with no outstanding command.
const NoTarget = -1

// CarState is a serializable snapshot of a single car, used on the wire
// and in status rendering.
type CarState struct {
	ID        int       `json:"id"`
	Floor     float64   `json:"floor"`
	Target    int       `json:"target"`
	Dir       Direction `json:"dir"`
	Occupants int       `json:"occupants"`
	Capacity  int       `json:"capacity"`
}

// StateOf captures a car's live accessors into a CarState.
func StateOf(c CarInfo) CarState {
	return CarState{
		ID:        c.ID(),
		Floor:     c.Floor(),
		Target:    c.TargetFloor(),
		Dir:       c.Direction(),
		Occupants: c.Occupants(),
		Capacity:  c.Capacity(),
	}
}

// SystemSnapshot gathers everything status rendering needs. Queues and
// Advisory are indexed like Cars.
type SystemSnapshot struct {
	Tick        int
	Strategy    string
	Cars        []CarState
	Queues      [][]int
	Advisory    []Direction
	BacklogUp   []int
	BacklogDown []int
	Waiting     int
	Riding      int
	Served      int
}
