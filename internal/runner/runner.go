// Package runner executes external tools (git, forge, npx, pnpm) and captures
// their output. A failed command surfaces as an *ExitError carrying the
// captured output so callers can log it or inspect it.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	consolestream "github.com/wolfeidau/console-stream"
)

// Command describes one invocation of an external tool.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is merged over the inherited process environment.
	Env map[string]string
	// Output, when set, also receives the command output as it is produced.
	Output io.Writer
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the captured output of a finished command.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Runner runs commands. Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ConsoleRunner runs commands through console-stream in pipe mode.
type ConsoleRunner struct {
	flushInterval time.Duration
}

var _ Runner = (*ConsoleRunner)(nil)

func NewConsoleRunner() *ConsoleRunner {
	return &ConsoleRunner{flushInterval: 100 * time.Millisecond}
}

func (r *ConsoleRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	started := time.Now()

	opts := []consolestream.ProcessOption{
		consolestream.WithPipeMode(),
		consolestream.WithFlushInterval(r.flushInterval),
	}
	if len(cmd.Env) > 0 {
		opts = append(opts, consolestream.WithEnv(environ(cmd.Env)))
	}
	if cmd.Dir != "" {
		opts = append(opts, consolestream.WithWorkingDir(cmd.Dir))
	}

	log := zerolog.Ctx(ctx)
	log.Debug().Str("cmd", cmd.String()).Str("dir", cmd.Dir).Msg("running command")

	process := consolestream.NewProcess(cmd.Name, cmd.Args, opts...)

	var out bytes.Buffer
	for event, err := range process.ExecuteAndStream(ctx) {
		if err != nil {
			res := Result{Output: out.String(), ExitCode: -1, Duration: time.Since(started)}
			return res, &ExitError{Command: cmd.String(), ExitCode: -1, Output: res.Output, Err: err}
		}

		switch e := event.Event.(type) {
		case *consolestream.OutputData:
			out.Write(e.Data)
			if cmd.Output != nil {
				_, _ = cmd.Output.Write(e.Data)
			}
		case *consolestream.ProcessEnd:
			res := Result{Output: out.String(), ExitCode: e.ExitCode, Duration: time.Since(started)}
			if e.ExitCode != 0 {
				return res, &ExitError{Command: cmd.String(), ExitCode: e.ExitCode, Output: res.Output}
			}
			log.Debug().
				Str("cmd", cmd.String()).
				Dur("duration", res.Duration).
				Msg("command finished")
			return res, nil
		}
	}

	res := Result{Output: out.String(), ExitCode: -1, Duration: time.Since(started)}
	if err := ctx.Err(); err != nil {
		return res, &ExitError{Command: cmd.String(), ExitCode: -1, Output: res.Output, Err: err}
	}
	return res, &ExitError{Command: cmd.String(), ExitCode: -1, Output: res.Output, Err: fmt.Errorf("process ended without exit status")}
}

// environ returns the process environment with overrides appended. The child
// sees the last value of a repeated key, so overrides win.
func environ(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
