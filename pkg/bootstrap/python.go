// Copyright 2024 LiveKit, Inc.
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
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// ErrMissingPrerequisite marks the one condition that aborts setup before
// anything is created.
var ErrMissingPrerequisite = errors.New("missing prerequisite")

// prerequisiteError reports a missing prerequisite in its own words while
// still matching ErrMissingPrerequisite.
type prerequisiteError struct {
	msg string
}

func missingPrerequisite(format string, args ...any) error {
	return &prerequisiteError{msg: fmt.Sprintf(format, args...)}
}

func (e *prerequisiteError) Error() string {
	return e.msg
}

func (e *prerequisiteError) Is(target error) bool {
	return target == ErrMissingPrerequisite
}

var pythonVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?([A-Za-z0-9.+-]*)`)

type LookPathFunc func(file string) (string, error)

// Interpreter is the Python executable chosen for a run. It is resolved
// once and reused by every later step.
type Interpreter struct {
	Name    string
	Path    string
	Raw     string
	Version *semver.Version
}

func (i *Interpreter) String() string {
	if i.Raw != "" {
		return i.Raw
	}
	return i.Name
}

// DiscoverInterpreter returns the first candidate found on PATH.
func DiscoverInterpreter(candidates []string, lookPath LookPathFunc) (*Interpreter, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range candidates {
		if p, err := lookPath(name); err == nil {
			return &Interpreter{Name: name, Path: p}, nil
		}
	}
	return nil, missingPrerequisite(
		"Python is not installed (looked for %s). Please install Python 3 and try again",
		strings.Join(candidates, ", "))
}

// ProbeVersion runs the interpreter's --version and records the result.
func (i *Interpreter) ProbeVersion(ctx context.Context, runner CommandRunner) error {
	out, err := runner.Output(ctx, Command{Name: i.Path, Args: []string{"--version"}})
	if err != nil {
		return errors.Wrap(err, "could not determine Python version")
	}
	i.Raw = out
	if v, err := ParsePythonVersion(out); err == nil {
		i.Version = v
	}
	return nil
}

// CheckMinimum fails when the probed version is older than min. An empty
// min or an unparsable probe result are accepted.
func (i *Interpreter) CheckMinimum(min string) error {
	if min == "" || i.Version == nil {
		return nil
	}
	minVersion, err := ParsePythonVersion(min)
	if err != nil {
		return errors.Wrapf(err, "invalid minimum Python version %q", min)
	}
	if i.Version.LessThan(minVersion) {
		return missingPrerequisite(
			"%s is too old, version %s or newer is required", i, minVersion.Original())
	}
	return nil
}

// ParsePythonVersion extracts a semantic version from strings such as
// "Python 3.11.4" or "3.13.0rc1".
func ParsePythonVersion(s string) (*semver.Version, error) {
	m := pythonVersionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("no version found in %q", s)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	normalized := m[1] + "." + m[2] + "." + patch
	if pre := strings.TrimLeft(m[4], ".-+"); pre != "" {
		normalized += "-" + pre
	}
	v, err := semver.NewVersion(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}
