package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/eiannone/keyboard"

	"elevsched/src/bridge"
	"elevsched/src/config"
	"elevsched/src/dispatcher"
	"elevsched/src/sim"
	"elevsched/src/stats"
	"elevsched/src/strategy"
	"elevsched/src/utils"
)

// input is the command surface the keyboard loop drives, implemented by the
// local simulator and the bridge server.
type input interface {
	Inject(origin, destination int)
	RequestStatus()
	Stop()
}

func main() {
	mode := flag.String("mode", "local", "local, serve or connect")
	scenarioPath := flag.String("scenario", "", "scenario YAML file, built-in defaults when empty")
	strategyName := flag.String("strategy", "", "cost strategy ("+strings.Join(strategy.Names(), ", ")+"), overrides the scenario")
	addr := flag.String("addr", "", "bridge address as host:port")
	name := flag.String("name", "", "client name sent to the bridge server")
	ticks := flag.Int("ticks", 0, "tick budget, overrides the scenario")
	tickRate := flag.Duration("tickrate", 0, "wall-clock pause per tick for serve and interactive runs")
	interactive := flag.Bool("interactive", false, "take calls from the keyboard")
	statusEvery := flag.Int("status", 0, "print the status table every n ticks")
	debug := flag.Bool("debug", false, "log at debug level")
	logFile := flag.String("logfile", "", "mirror log output to this file")
	envFile := flag.String("env", "", "read environment overrides from this .env file")
	flag.Parse()

	env := config.LoadEnv(*envFile)
	if *logFile == "" {
		*logFile = env.LogFile
	}
	utils.InitLogger(*debug || env.Debug, *logFile)

	scn := config.DefaultScenario()
	if *scenarioPath != "" {
		var err error
		scn, err = config.LoadScenario(*scenarioPath)
		if err != nil {
			fatal(err)
		}
	}
	if *strategyName != "" {
		scn.Strategy = *strategyName
	}
	if *ticks > 0 {
		scn.Ticks = *ticks
	}
	if *addr == "" {
		*addr = env.BridgeAddr
	}
	pace := *tickRate
	if pace == 0 && (*mode == "serve" || *interactive) {
		pace = config.DefaultTickRate
	}

	var err error
	switch *mode {
	case "local":
		err = runLocal(scn, pace, *interactive, *statusEvery)
	case "serve":
		err = runServe(scn, *addr, pace, *interactive, *statusEvery)
	case "connect":
		err = bridge.Connect(*addr, *name, scn.Strategy)
	default:
		err = fmt.Errorf("unknown mode %q (have local, serve, connect)", *mode)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	slog.Error(err.Error())
	os.Exit(1)
}

// runLocal wires the engine straight into the simulator and runs the
// scenario to completion in one process.
func runLocal(scn config.Scenario, pace time.Duration, interactive bool, statusEvery int) error {
	strat, err := strategy.New(scn.Strategy, scn.TopFloor())
	if err != nil {
		return err
	}
	collector := stats.NewCollector()
	engine := dispatcher.New(strat, dispatcher.MultiObserver{dispatcher.LogObserver{}, collector})

	run := sim.New(scn, engine)
	run.TickRate = pace
	run.StatusEvery = statusEvery
	if interactive {
		run.HoldOpen = true
		go keyboardLoop(run, scn.TopFloor())
	}
	run.Run()
	fmt.Print(collector.Summary())
	return nil
}

// runServe exposes the simulator over the bridge and leaves dispatching to
// whichever client connects.
func runServe(scn config.Scenario, addr string, pace time.Duration, interactive bool, statusEvery int) error {
	srv := bridge.NewServer(scn)
	srv.TickRate = pace
	srv.StatusEvery = statusEvery
	srv.HoldOpen = interactive
	if interactive {
		go keyboardLoop(srv, scn.TopFloor())
	}
	return srv.ListenAndServe(addr)
}

// keyboardLoop turns key presses into simulator input: digits pick the
// origin floor, u and d place the call, s prints the status table, q or
// Ctrl-C ends the run.
func keyboardLoop(in input, topFloor int) {
	origin := 0
	for {
		char, key, err := keyboard.GetSingleKey()
		if err != nil {
			slog.Error("keyboard read failed", "error", err)
			in.Stop()
			return
		}
		switch {
		case char == 'q' || key == keyboard.KeyCtrlC:
			in.Stop()
			return
		case char >= '0' && char <= '9':
			origin = utils.Clamp(int(char-'0'), 0, topFloor)
			slog.Info("origin floor selected", "floor", origin)
		case char == 'u':
			in.Inject(origin, topFloor)
		case char == 'd':
			in.Inject(origin, 0)
		case char == 's':
			in.RequestStatus()
		}
	}
}
