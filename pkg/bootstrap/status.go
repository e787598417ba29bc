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

	"github.com/flask-examples/flask-setup/pkg/util"
)

// Status is a read-only snapshot of every resource setup manages.
type Status struct {
	Root        string            `json:"root"`
	Interpreter InterpreterStatus `json:"interpreter"`
	Environment EnvironmentStatus `json:"environment"`
	Manifest    ManifestStatus    `json:"manifest"`
	Database    DatabaseStatus    `json:"database"`
}

type InterpreterStatus struct {
	Found   bool   `json:"found"`
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

type EnvironmentStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Usable bool   `json:"usable"`
}

type ManifestStatus struct {
	Path         string   `json:"path"`
	Exists       bool     `json:"exists"`
	Requirements []string `json:"requirements,omitempty"`
}

type DatabaseStatus struct {
	Path   string   `json:"path"`
	Exists bool     `json:"exists"`
	Tables []string `json:"tables,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Ready reports whether a setup run would find nothing left to create.
func (st *Status) Ready() bool {
	return st.Interpreter.Found && st.Environment.Usable && st.Database.Exists && st.Database.Error == ""
}

// CollectStatus inspects the project without creating or changing anything.
func CollectStatus(ctx context.Context, s *Session) *Status {
	cfg := s.Config
	st := &Status{Root: s.Root}

	if interp, err := DiscoverInterpreter(cfg.Python.Candidates, s.LookPath); err == nil {
		st.Interpreter = InterpreterStatus{Found: true, Name: interp.Name, Path: interp.Path}
		if err := interp.ProbeVersion(ctx, s.Runner); err == nil {
			st.Interpreter.Version = interp.Raw
		}
	}

	env := NewEnvironment(s.path(cfg.VenvDir))
	st.Environment = EnvironmentStatus{
		Path:   cfg.VenvDir,
		Exists: util.DirExists(env.Dir),
		Usable: env.HasInterpreter(),
	}

	st.Manifest = ManifestStatus{Path: cfg.Requirements}
	if util.FileExists(s.Root, cfg.Requirements) {
		st.Manifest.Exists = true
		if reqs, err := ReadRequirements(s.path(cfg.Requirements)); err == nil {
			for _, r := range reqs {
				st.Manifest.Requirements = append(st.Manifest.Requirements, r.String())
			}
		}
	}

	st.Database = DatabaseStatus{Path: cfg.DatabasePath()}
	if util.FileExists(s.path(cfg.Database.Dir), cfg.Database.File) {
		st.Database.Exists = true
		info, err := InspectDatabase(ctx, s.path(cfg.DatabasePath()))
		if err != nil {
			st.Database.Error = err.Error()
		} else {
			st.Database.Tables = info.Tables
		}
	}
	return st
}

func PrintStatus(r *Reporter, st *Status) {
	r.Headerf("Project %s", st.Root)

	if st.Interpreter.Found {
		r.Println(statusLine(true, "interpreter", st.Interpreter.Version+" ("+st.Interpreter.Path+")"))
	} else {
		r.Println(statusLine(false, "interpreter", "Python is not installed"))
	}

	envDetail := util.ToUnixPath(st.Environment.Path)
	switch {
	case st.Environment.Usable:
	case st.Environment.Exists:
		envDetail += " (no interpreter inside)"
	default:
		envDetail += " (missing)"
	}
	r.Println(statusLine(st.Environment.Usable, "environment", envDetail))

	manifestDetail := st.Manifest.Path + " (missing, optional)"
	if st.Manifest.Exists {
		manifestDetail = st.Manifest.Path
		if len(st.Manifest.Requirements) > 0 {
			manifestDetail += ": " + strings.Join(st.Manifest.Requirements, ", ")
		}
	}
	r.Println(statusLine(st.Manifest.Exists, "requirements", manifestDetail))

	dbDetail := util.ToUnixPath(st.Database.Path)
	switch {
	case !st.Database.Exists:
		dbDetail += " (not initialized)"
	case st.Database.Error != "":
		dbDetail += " (" + st.Database.Error + ")"
	case len(st.Database.Tables) > 0:
		dbDetail += " (tables: " + strings.Join(st.Database.Tables, ", ") + ")"
	}
	r.Println(statusLine(st.Database.Exists && st.Database.Error == "", "database", dbDetail))
}

func statusLine(ok bool, name, detail string) string {
	mark := "✗"
	if ok {
		mark = "✓"
	}
	return "  " + mark + " " + padRight(name, 12) + " " + detail
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
