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
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestExecRunnerStreamsOutput(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	r := NewExecRunner(&stdout, &stderr)

	err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestExecRunnerQuiet(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	r := NewExecRunner(&stdout, &stderr)

	err := r.Run(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "echo noisy; echo broken 1>&2; exit 3"},
		Quiet: true,
	})
	require.Error(t, err)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Error(), "exited with status 3")
	assert.Contains(t, cmdErr.Error(), "broken")
	assert.Equal(t, "broken", strings.TrimSpace(cmdErr.Output))
	assert.NotContains(t, cmdErr.Output, "noisy")
}

func TestExecRunnerDirAndEnv(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	r := NewExecRunner(nil, nil)

	out, err := r.Output(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", `pwd -P; echo "$GREETING"`},
		Dir:  dir,
		Env:  []string{"GREETING=hello"},
	})
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved+"\nhello", out)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner(nil, nil)
	err := r.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, -1, cmdErr.ExitCode)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestExecRunnerCancelled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExecRunner(nil, nil).Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 5"}})
	require.Error(t, err)
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "python3", Args: []string{"-m", "venv", "venv"}}
	assert.Equal(t, "python3 -m venv venv", c.String())
}
