package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultFloors     = 6
	DefaultCars       = 2
	DefaultCapacity   = 8
	DefaultSpeed      = 0.5 // floors per tick
	DefaultDwellTicks = 3
	DefaultTicks      = 1000
	DefaultStrategy   = "scan"
	DefaultTickRate   = 50 * time.Millisecond
	DefaultBridgeAddr = "127.0.0.1:23410"
	WatchdogTimeout   = 5 * time.Second
	PingInterval      = time.Second
	CommandBacklog    = 64 // remote commands buffered per session
	InjectBacklog     = 16 // interactive arrivals buffered per run
)

// Env holds overrides read from the process environment, optionally seeded
// from a .env file. Real environment variables win over file entries;
// missing values keep the compiled defaults.
type Env struct {
	BridgeAddr string
	LogFile    string
	Debug      bool
}

func LoadEnv(path string) Env {
	env := Env{BridgeAddr: DefaultBridgeAddr}
	file := map[string]string{}
	if path != "" {
		if m, err := godotenv.Read(path); err == nil {
			file = m
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	}
	if v := lookup("ELEVSCHED_ADDR"); v != "" {
		env.BridgeAddr = v
	}
	if v := lookup("ELEVSCHED_LOGFILE"); v != "" {
		env.LogFile = v
	}
	if v := lookup("ELEVSCHED_DEBUG"); v != "" {
		env.Debug, _ = strconv.ParseBool(v)
	}
	return env
}
