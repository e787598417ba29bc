// Copyright 2025 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/livekit/protocol/logger"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the child only; empty means the
	// current directory.
	Dir string
	// Env is the complete child environment; nil inherits the process
	// environment.
	Env []string
	// Quiet discards stdout and keeps stderr for the error message.
	Quiet bool
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type CommandRunner interface {
	// Run blocks until the command exits, streaming its output unless the
	// command is quiet.
	Run(ctx context.Context, c Command) error
	// Output runs the command and returns its trimmed combined output.
	Output(ctx context.Context, c Command) (string, error)
}

type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

func (r *ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	return cmd
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := r.command(ctx, c)
	var stderr bytes.Buffer
	if c.Quiet {
		cmd.Stdout = io.Discard
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}

	logger.Debugw("running command", "command", c.String(), "dir", c.Dir, "quiet", c.Quiet)
	if err := cmd.Run(); err != nil {
		return newCommandError(c, err, stderr.String())
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	logger.Debugw("running command", "command", c.String(), "dir", c.Dir)
	out, err := r.command(ctx, c).CombinedOutput()
	if err != nil {
		return "", newCommandError(c, err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// CommandError reports an external tool that could not be started or
// exited unsuccessfully.
type CommandError struct {
	Command string
	// ExitCode is the tool's exit status, or -1 when it never ran to
	// completion.
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	var msg string
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	} else {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func newCommandError(c Command, err error, output string) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &CommandError{
		Command:  c.String(),
		ExitCode: code,
		Output:   output,
		Err:      err,
	}
}
