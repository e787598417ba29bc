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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePythonVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "Python 3.11.4", expected: "3.11.4"},
		{input: "Python 2.7.18", expected: "2.7.18"},
		{input: "3.9", expected: "3.9.0"},
		{input: "Python 3.13.0rc1", expected: "3.13.0-rc1"},
		{input: "Python 3.12.0a7", expected: "3.12.0-a7"},
		{input: "Python 3.10.12+", expected: "3.10.12"},
		{input: "command not found", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParsePythonVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestDiscoverInterpreterPriority(t *testing.T) {
	interp, err := DiscoverInterpreter([]string{"python3", "python"}, lookPathFor("python", "python3"))
	require.NoError(t, err)
	assert.Equal(t, "python3", interp.Name)
	assert.Equal(t, "/usr/bin/python3", interp.Path)

	interp, err = DiscoverInterpreter([]string{"python3", "python"}, lookPathFor("python"))
	require.NoError(t, err)
	assert.Equal(t, "python", interp.Name)

	_, err = DiscoverInterpreter([]string{"python3", "python"}, lookPathFor("ruby"))
	require.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.Contains(t, err.Error(), "Python is not installed")
	assert.Contains(t, err.Error(), "python3, python")
	assert.True(t, strings.HasSuffix(err.Error(), "Please install Python 3 and try again"), err.Error())
}

func TestProbeVersion(t *testing.T) {
	runner := &fakeRunner{t: t, version: "Python 3.12.1"}
	interp := &Interpreter{Name: "python3", Path: "/usr/bin/python3"}

	require.NoError(t, interp.ProbeVersion(context.Background(), runner))
	assert.Equal(t, "Python 3.12.1", interp.Raw)
	assert.Equal(t, "3.12.1", interp.Version.String())
	assert.Equal(t, "Python 3.12.1", interp.String())
	require.Len(t, runner.commands, 1)
	assert.Equal(t, []string{"--version"}, runner.commands[0].Args)

	failing := &fakeRunner{t: t, fail: map[string]error{"--version": &CommandError{Command: "python3 --version", ExitCode: 1}}}
	err := (&Interpreter{Path: "python3"}).ProbeVersion(context.Background(), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not determine Python version")
}

func TestCheckMinimum(t *testing.T) {
	v, err := ParsePythonVersion("Python 3.8.10")
	require.NoError(t, err)
	interp := &Interpreter{Name: "python3", Raw: "Python 3.8.10", Version: v}

	assert.NoError(t, interp.CheckMinimum(""))
	assert.NoError(t, interp.CheckMinimum("3.7"))
	assert.NoError(t, interp.CheckMinimum("3.8"))
	err = interp.CheckMinimum("3.9")
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.EqualError(t, err, "Python 3.8.10 is too old, version 3.9.0 or newer is required")
	assert.Error(t, interp.CheckMinimum("three"))

	unknown := &Interpreter{Name: "python", Raw: "weird build"}
	assert.NoError(t, unknown.CheckMinimum("3.9"))
}
