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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

const PyprojectFile = "pyproject.toml"

// Requirement is one package line of a requirements manifest.
type Requirement struct {
	Name string
	// Spec is everything after the name: extras, version specifiers and
	// environment markers.
	Spec string
}

func (r Requirement) String() string {
	return r.Name + r.Spec
}

// ParseRequirements lists the packages declared in a pip requirements
// file. Comments, blank lines and pip options (-r, -e, --index-url, ...)
// are not packages and are skipped.
func ParseRequirements(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement
	add := func(line string) {
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			return
		}
		end := strings.IndexAny(line, "[=<>!~;@ \t")
		if end < 0 {
			end = len(line)
		}
		reqs = append(reqs, Requirement{
			Name: line[:end],
			Spec: strings.TrimSpace(line[end:]),
		})
	}

	scanner := bufio.NewScanner(r)
	var pending string
	for scanner.Scan() {
		line := pending + scanner.Text()
		pending = ""
		if strings.HasSuffix(line, "\\") {
			pending = strings.TrimSuffix(line, "\\")
			continue
		}
		add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read requirements")
	}
	// a continuation on the last line still ends the requirement
	add(pending)
	return reqs, nil
}

func ReadRequirements(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRequirements(f)
}

// PyprojectDependencies returns project.dependencies from a pyproject.toml.
func PyprojectDependencies(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", PyprojectFile)
	}
	project, ok := doc["project"].(map[string]any)
	if !ok {
		return nil, nil
	}
	deps, ok := project["dependencies"].([]any)
	if !ok {
		return nil, nil
	}
	var out []string
	for _, dep := range deps {
		if s, ok := dep.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
