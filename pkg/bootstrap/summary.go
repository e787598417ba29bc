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
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/flask-examples/flask-setup/pkg/util"
)

// ActivateHint is the shell command that activates the environment in dir.
func ActivateHint(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "Scripts", "activate")
	}
	return "source " + util.ToUnixPath(filepath.Join(dir, "bin", "activate"))
}

// PrintSummary prints the usage guide shown once setup completes.
func PrintSummary(r *Reporter, venvDir string, examples []Example) {
	r.Println("")
	r.Headerf("To start working, activate the virtual environment:")
	r.Println("  " + ActivateHint(venvDir))
	r.Println("")
	r.Headerf("Available examples:")
	for _, line := range exampleLines(examples) {
		r.Println(line)
	}
	r.Println("")
	r.Println("Run an example with: python <file>")
}

func exampleLines(examples []Example) []string {
	width := 0
	for _, e := range examples {
		width = max(width, len(e.Name))
	}
	lines := make([]string, 0, len(examples))
	for _, e := range examples {
		line := fmt.Sprintf("  %-*s  %s", width, e.Name, e.File)
		if e.Desc != "" {
			line += "  - " + e.Desc
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}
