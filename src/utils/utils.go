package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"elevsched/src/types"
)

// InitLogger configures the default slog logger. A non-empty logFile mirrors
// the output to that file.
func InitLogger(debug bool, logFile string) {
	var w io.Writer = os.Stdout
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			panic(err)
		}
		w = io.MultiWriter(os.Stdout, f)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					file := source.File
					if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
						file = file[lastSlash+1:]
					}
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, source.Line))
				}
			}
			return a
		},
	})

	slog.SetDefault(slog.New(handler))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatCall renders a hall call like Up(3) for log lines.
func FormatCall(floor int, dir types.Direction) string {
	switch dir {
	case types.DirUp:
		return fmt.Sprintf("Up(%d)", floor)
	case types.DirDown:
		return fmt.Sprintf("Down(%d)", floor)
	}
	return fmt.Sprintf("Here(%d)", floor)
}

// PrintStatus renders the snapshot as a status block. Queue, advisory and
// backlog columns only appear when the snapshot carries dispatch state; a
// bridge server sees only car kinematics.
func PrintStatus(w io.Writer, snap types.SystemSnapshot) {
	fmt.Fprintf(w, "tick %d | strategy %s | waiting %d riding %d served %d\n",
		snap.Tick, snap.Strategy, snap.Waiting, snap.Riding, snap.Served)
	for i, car := range snap.Cars {
		target := "-"
		if car.Target != types.NoTarget {
			target = strconv.Itoa(car.Target)
		}
		fmt.Fprintf(w, "  car %d | pos %5.2f | target %-2s | %-7s | load %d/%d",
			car.ID, car.Floor, target, car.Dir, car.Occupants, car.Capacity)
		if i < len(snap.Queues) {
			fmt.Fprintf(w, " | queue %v", snap.Queues[i])
		}
		if i < len(snap.Advisory) {
			fmt.Fprintf(w, " | advisory %s", snap.Advisory[i])
		}
		fmt.Fprintln(w)
	}
	if snap.BacklogUp != nil || snap.BacklogDown != nil {
		fmt.Fprintf(w, "  backlog | up %v | down %v\n", snap.BacklogUp, snap.BacklogDown)
	}
}
