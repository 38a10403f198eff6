package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PassengerSpec schedules one scripted passenger arrival.
type PassengerSpec struct {
	ID          int `yaml:"id"`
	Origin      int `yaml:"origin"`
	Destination int `yaml:"destination"`
	At          int `yaml:"at"`
}

// ArrivalSpec adds randomly generated passengers on top of the scripted
// list: each tick one extra passenger appears with probability Rate, up to
// Count in total. The same Seed always produces the same passengers.
type ArrivalSpec struct {
	Seed  int64   `yaml:"seed"`
	Rate  float64 `yaml:"rate"`
	Count int     `yaml:"count"`
}

// Scenario describes one simulation run. Fields omitted from the YAML file
// keep their defaults.
type Scenario struct {
	Floors     int             `yaml:"floors"`
	Cars       int             `yaml:"cars"`
	Capacity   int             `yaml:"capacity"`
	Speed      float64         `yaml:"speed"`
	DwellTicks int             `yaml:"dwell"`
	Strategy   string          `yaml:"strategy"`
	Ticks      int             `yaml:"ticks"`
	Passengers []PassengerSpec `yaml:"passengers"`
	Arrivals   *ArrivalSpec    `yaml:"arrivals"`
}

func DefaultScenario() Scenario {
	return Scenario{
		Floors:     DefaultFloors,
		Cars:       DefaultCars,
		Capacity:   DefaultCapacity,
		Speed:      DefaultSpeed,
		DwellTicks: DefaultDwellTicks,
		Strategy:   DefaultStrategy,
		Ticks:      DefaultTicks,
	}
}

// TopFloor is the highest floor index of the scenario.
func (s Scenario) TopFloor() int { return s.Floors - 1 }

func LoadScenario(path string) (Scenario, error) {
	s := DefaultScenario()
	file, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("open scenario: %w", err)
	}
	defer file.Close()
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

func (s Scenario) Validate() error {
	if s.Floors < 2 {
		return fmt.Errorf("floors must be at least 2, got %d", s.Floors)
	}
	if s.Cars < 1 {
		return fmt.Errorf("cars must be at least 1, got %d", s.Cars)
	}
	if s.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", s.Capacity)
	}
	if s.Speed <= 0 || s.Speed > 1 {
		return fmt.Errorf("speed must be in (0, 1] floors per tick, got %g", s.Speed)
	}
	if s.DwellTicks < 1 {
		return fmt.Errorf("dwell must be at least 1 tick, got %d", s.DwellTicks)
	}
	if s.Ticks < 1 {
		return fmt.Errorf("ticks must be at least 1, got %d", s.Ticks)
	}
	seen := make(map[int]bool, len(s.Passengers))
	for i, p := range s.Passengers {
		if p.ID <= 0 {
			return fmt.Errorf("passenger %d: id must be positive, got %d", i, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("passenger id %d appears twice", p.ID)
		}
		seen[p.ID] = true
		if p.Origin < 0 || p.Origin > s.TopFloor() {
			return fmt.Errorf("passenger %d: origin %d out of range [0, %d]", p.ID, p.Origin, s.TopFloor())
		}
		if p.Destination < 0 || p.Destination > s.TopFloor() {
			return fmt.Errorf("passenger %d: destination %d out of range [0, %d]", p.ID, p.Destination, s.TopFloor())
		}
		if p.Origin == p.Destination {
			return fmt.Errorf("passenger %d: origin and destination are both %d", p.ID, p.Origin)
		}
		if p.At < 0 {
			return fmt.Errorf("passenger %d: arrival tick must not be negative, got %d", p.ID, p.At)
		}
	}
	if a := s.Arrivals; a != nil {
		if a.Rate <= 0 || a.Rate > 1 {
			return fmt.Errorf("arrivals: rate must be in (0, 1], got %g", a.Rate)
		}
		if a.Count < 1 {
			return fmt.Errorf("arrivals: count must be at least 1, got %d", a.Count)
		}
	}
	return nil
}
