/*
Parrottutor is a readline-driven stand-in for a real teacher process, used
for local development against parrotd: it accepts one agent connection,
then streams whatever a developer types, character by character, printing
the agent's replies as they arrive.

Usage:

	parrottutor [flags]

The flags are:

	-v, --version
		Give the current version of parrottutor and then exit.

	-a, --addr ADDRESS
		Address to listen on for the agent connection. Defaults to
		127.0.0.1:5556.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/parrot/internal/teachersim"
	"github.com/dekarrin/parrot/internal/transport"
	"github.com/dekarrin/parrot/internal/version"
)

// promptFormat documents the script line syntax accepted at the teacher>
// prompt: "TEACHERCHARS|EXPECTEDREPLIES", e.g. "abcdefgabc|  ccefgabc" to
// replay the identity-mapping end-to-end scenario. The '|' and everything
// after it may be omitted to just stream characters without scoring.
const promptFormat = "teacher> TEACHERCHARS[|EXPECTEDREPLIES]"

const (
	ExitSuccess = iota
	ExitInitError
	ExitRuntimeError
)

var (
	returnCode = ExitSuccess

	flagVersion = pflag.BoolP("version", "v", false, "Give the version info")
	flagAddr    = pflag.StringP("addr", "a", "127.0.0.1:5556", "Address to listen on for the agent connection")
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

	ln, err := transport.Listen(*flagAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer ln.Close()

	fmt.Printf("waiting for agent on %s...\n", *flagAddr)
	nc, err := ln.Accept()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	conn := transport.Accept(nc)
	defer conn.Close()

	if err := conn.AwaitHandshake(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	console, err := teachersim.NewConsole("teacher> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer console.Close()

	fmt.Printf("agent connected. enter script lines as %s\n", promptFormat)

	var lastReply rune
	for {
		line, err := console.NextLine()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				returnCode = ExitRuntimeError
			}
			return
		}
		script := teachersim.ParseScript(line)

		for tick, tc := range []rune(script.Teacher) {
			reward := rune(' ')
			if tick > 0 {
				reward = script.RewardFor(tick-1, lastReply)
			}
			if err := conn.WriteReward(reward); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: writing reward to agent: %s\n", err.Error())
				returnCode = ExitRuntimeError
				return
			}
			if err := conn.WriteChar(tc); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: writing to agent: %s\n", err.Error())
				returnCode = ExitRuntimeError
				return
			}
			reply, err := conn.ReadChar()
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: reading from agent: %s\n", err.Error())
				returnCode = ExitRuntimeError
				return
			}
			lastReply = reply
			fmt.Printf("%c", reply)
		}
		fmt.Println()
	}
}
