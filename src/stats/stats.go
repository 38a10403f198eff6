package stats

import (
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"

	"elevsched/src/dispatcher"
	"elevsched/src/types"
)

// Collector aggregates wait times and dispatch counters by observing engine
// transitions. Like the engine it is single-threaded and runs on the host's
// event goroutine.
type Collector struct {
	dispatcher.NopObserver
	report Report
}

var _ dispatcher.Observer = (*Collector)(nil)

// PassengerWait is one completed boarding.
type PassengerWait struct {
	Passenger int
	Car       int
	WaitTicks int
}

// Report is the aggregate view handed out by the collector.
type Report struct {
	Calls       int
	Assigned    int
	Deferred    int
	Claimed     int
	Boardings   int
	Alightings  int
	WaitSum     int
	WaitMax     int
	BacklogPeak int
	FinalTick   int
	Waits       []PassengerWait
}

// AvgWait is the mean boarding wait in ticks.
func (r Report) AvgWait() float64 {
	if r.Boardings == 0 {
		return 0
	}
	return float64(r.WaitSum) / float64(r.Boardings)
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) CallReceived(p types.Passenger, floor int, dir types.Direction, tick int) {
	c.report.Calls++
}

func (c *Collector) CallAssigned(car types.Car, p types.Passenger, floor int, dir types.Direction, cost float64) {
	c.report.Assigned++
}

func (c *Collector) CallDeferred(floor int, dir types.Direction) {
	c.report.Deferred++
	if depth := c.report.Deferred - c.report.Claimed; depth > c.report.BacklogPeak {
		c.report.BacklogPeak = depth
	}
}

func (c *Collector) BacklogClaimed(car types.Car, floor int, dir types.Direction) {
	c.report.Claimed++
}

func (c *Collector) Boarded(car types.Car, p types.Passenger, waitTicks int) {
	c.report.Boardings++
	c.report.WaitSum += waitTicks
	if waitTicks > c.report.WaitMax {
		c.report.WaitMax = waitTicks
	}
	c.report.Waits = append(c.report.Waits, PassengerWait{
		Passenger: p.ID(),
		Car:       car.ID(),
		WaitTicks: waitTicks,
	})
}

func (c *Collector) Alighted(car types.Car, p types.Passenger, floor int) {
	c.report.Alightings++
}

func (c *Collector) Done(tick int) { c.report.FinalTick = tick }

// Report returns an isolated copy of the collected numbers; callers can
// keep or mutate it without touching the collector.
func (c *Collector) Report() Report {
	out := new(Report)
	if err := deepcopy.Copy(out, &c.report); err != nil {
		panic(err)
	}
	return *out
}

// Summary renders the report as a printable block.
func (c *Collector) Summary() string {
	r := c.Report()
	var b strings.Builder
	fmt.Fprintf(&b, "ticks: %d\n", r.FinalTick)
	fmt.Fprintf(&b, "calls: %d (assigned %d, deferred %d, backlog claims %d, peak backlog %d)\n",
		r.Calls, r.Assigned, r.Deferred, r.Claimed, r.BacklogPeak)
	fmt.Fprintf(&b, "boardings: %d, alightings: %d\n", r.Boardings, r.Alightings)
	fmt.Fprintf(&b, "wait ticks: avg %.2f, max %d\n", r.AvgWait(), r.WaitMax)
	return b.String()
}
