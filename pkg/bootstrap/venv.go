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
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Environment is an activated virtual environment expressed as data: the
// child process environment produced by Activate replaces sourcing the
// activation script, so the orchestrator's own environment is untouched.
type Environment struct {
	Dir    string
	BinDir string
}

func NewEnvironment(dir string) *Environment {
	bin := "bin"
	if runtime.GOOS == "windows" {
		bin = "Scripts"
	}
	return &Environment{
		Dir:    dir,
		BinDir: filepath.Join(dir, bin),
	}
}

// Executable returns the path of a tool installed inside the environment.
func (e *Environment) Executable(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	return filepath.Join(e.BinDir, name)
}

func (e *Environment) Python() string {
	return e.Executable("python")
}

// HasInterpreter reports whether the environment looks usable.
func (e *Environment) HasInterpreter() bool {
	_, err := os.Stat(e.Python())
	return err == nil
}

// Activate derives the environment seen by tools running inside the
// virtual environment from base: VIRTUAL_ENV is set, the bin directory
// leads PATH and PYTHONHOME is dropped.
func (e *Environment) Activate(base []string) []string {
	path := ""
	env := make([]string, 0, len(base)+2)
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case envKeyEqual(key, "PATH"):
			path = value
		case envKeyEqual(key, "VIRTUAL_ENV"), envKeyEqual(key, "PYTHONHOME"):
		default:
			env = append(env, kv)
		}
	}
	if path != "" {
		path = e.BinDir + string(os.PathListSeparator) + path
	} else {
		path = e.BinDir
	}
	return append(env, "VIRTUAL_ENV="+e.Dir, "PATH="+path)
}

// WithEnv returns a copy of env where each KEY=VALUE in overrides replaces
// any existing entry for KEY.
func WithEnv(env []string, overrides ...string) []string {
	out := make([]string, 0, len(env)+len(overrides))
	for _, kv := range env {
		key, _, _ := strings.Cut(kv, "=")
		replaced := false
		for _, o := range overrides {
			okey, _, _ := strings.Cut(o, "=")
			if envKeyEqual(key, okey) {
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, kv)
		}
	}
	return append(out, overrides...)
}

// LookupEnv returns the value of key in env.
func LookupEnv(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(env[i], "=")
		if ok && envKeyEqual(k, key) {
			return v, true
		}
	}
	return "", false
}

func envKeyEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
