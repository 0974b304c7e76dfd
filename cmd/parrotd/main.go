/*
Parrotd runs the single-character dialogue learning agent against a
teacher process.

It connects to a teacher over a paired socket, feeds every character it
receives through the learner core, and writes back whatever character (or
queued multi-character answer) the core decides on. Rewards observed in
the teacher's feedback drive rule induction; the task-switch arbiter resets
per-task state when the teacher appears to have moved on to a new task.

Usage:

	parrotd [flags]

The flags are:

	-v, --version
		Give the current version of parrotd and then exit.

	-c, --config FILE
		Use the provided TOML config file. Defaults to "parrot.toml" in the
		current working directory if present; otherwise built-in defaults
		are used.

	-a, --addr ADDRESS
		Override the teacher address from the config file.

	-d, --display
		Render the rolling conversation window to stderr as the session
		progresses.

	--debug-snapshot FILE
		On exit, write a diagnostic rule-count snapshot to FILE.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dekarrin/parrot/internal/config"
	"github.com/dekarrin/parrot/internal/display"
	"github.com/dekarrin/parrot/internal/learner"
	"github.com/dekarrin/parrot/internal/learnerr"
	"github.com/dekarrin/parrot/internal/transport"
	"github.com/dekarrin/parrot/internal/version"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitRuntimeError
)

var (
	returnCode = ExitSuccess

	flagVersion  = pflag.BoolP("version", "v", false, "Give the version info")
	flagConfig   = pflag.StringP("config", "c", "parrot.toml", "TOML config file to load")
	flagAddr     = pflag.StringP("addr", "a", "", "Override transport.address from the config file")
	flagDisplay  = pflag.BoolP("display", "d", false, "Render the rolling conversation window to stderr")
	flagSnapshot = pflag.String("debug-snapshot", "", "Write a diagnostic rule-count snapshot to this file on exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	sessionID := uuid.NewString()
	log := logger(sessionID)
	log.Printf("starting session %s", sessionID)

	cfg := config.Default()
	if _, err := os.Stat(*flagConfig); err == nil {
		loaded, loadErr := config.Load(*flagConfig)
		if loadErr != nil {
			log.Printf("ERROR: %s", loadErr.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}
	if *flagAddr != "" {
		cfg.Transport.Address = *flagAddr
	}

	ctrl := learner.NewControllerWithLimits(learner.Limits{
		MaxStreamChars:       cfg.Brain.MaxStreamChars,
		MaxLogEntries:        cfg.Brain.MaxLogEntries,
		ConsecutiveLossLimit: cfg.Brain.ConsecutiveLossLimit,
		ConsecutiveWinLimit:  cfg.Brain.ConsecutiveWinLimit,
	})

	var win *display.Window
	if *flagDisplay && cfg.Display.Enabled {
		win = display.NewWindow(cfg.Display.Width, cfg.Display.HistoryLines)
	}

	ctx := context.Background()
	timeout := time.Duration(cfg.Transport.DialTimeout) * time.Second
	conn, err := transport.Dial(ctx, cfg.Transport.Address, timeout)
	if err != nil {
		log.Printf("ERROR: %s", learnerr.Detail(learnerr.WrapProtocol(err, "could not reach teacher", "")))
		returnCode = ExitInitError
		return
	}
	defer conn.Close()

	if err := conn.Handshake(); err != nil {
		log.Printf("ERROR: %s", learnerr.Detail(learnerr.WrapProtocol(err, "handshake with teacher failed", "")))
		returnCode = ExitInitError
		return
	}

	if runErr := run(ctrl, conn, win, log); runErr != nil {
		log.Printf("ERROR: %s", runErr.Error())
		returnCode = ExitRuntimeError
	}

	if *flagSnapshot != "" {
		rc := learner.Snapshot(ctrl.Brain())
		if err := os.WriteFile(*flagSnapshot, learner.Encode(rc), 0o644); err != nil {
			log.Printf("ERROR: could not write snapshot: %s", err.Error())
		}
	}

	if alpha := ctrl.Brain().Alphabet(); len(alpha) > 0 {
		names := make([]string, len(alpha))
		for i, r := range alpha {
			names[i] = fmt.Sprintf("%q", r)
		}
		log.Printf("characters learned this session: %s", joinAlphabet(names))
	}
}

// joinAlphabet renders a log-friendly, comma-separated, Oxford-commaed list
// of the characters seen this session.
func joinAlphabet(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		last := len(names) - 1
		return strings.Join(names[:last], ", ") + ", and " + names[last]
	}
}

func logger(sessionID string) *log.Logger {
	return log.New(os.Stderr, fmt.Sprintf("parrotd[%s]: ", sessionID), log.LstdFlags)
}

// run drives the tick loop: every tick receives the reward frame, then the
// teacher-character frame (the wire order §6 requires), then feeds them to
// the controller (RegisterReward before Answer), and always writes back
// exactly one reply character - the first reward received is discarded,
// since there is no prior action for it to score. When the dedicated
// reward channel has gone quiet (IsTeacherSilent) and the teacher's next
// character isn't blank either, that character is treated as the reaction
// that was missing from the reward channel: it scores the pending answer
// via RegisterReward's fromInput flag instead of the silent wire value.
// Every time the task-switch arbiter resets state, the new task id is
// logged.
func run(ctrl *learner.Controller, conn *transport.Conn, win *display.Window, log *log.Logger) error {
	first := true
	taskID := ctrl.TaskID()
	for {
		reward, err := conn.ReadReward()
		if err != nil {
			return fmt.Errorf("reading reward from teacher: %w", err)
		}

		c, err := conn.ReadChar()
		if err != nil {
			return fmt.Errorf("reading from teacher: %w", err)
		}

		if first {
			first = false
		} else {
			effReward, fromInput := reward, false
			if reward == ' ' && c != ' ' && ctrl.Brain().Stream.IsTeacherSilent() {
				effReward, fromInput = '+', true
			}
			ctrl.RegisterReward(effReward, fromInput)
		}

		out := ctrl.Answer(c)
		if err := conn.WriteChar(out); err != nil {
			return fmt.Errorf("writing to teacher: %w", err)
		}
		if newID := ctrl.TaskID(); newID != taskID {
			taskID = newID
			log.Printf("task switch: now on task %s", taskID)
		}
		if win != nil {
			win.Push(string(c), string(out), reward)
			fmt.Fprintln(os.Stderr, win.Render())
		}
	}
}
