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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedReporter(out, log *bytes.Buffer, styled bool) *Reporter {
	r := NewReporter(out, nil, styled)
	if log != nil {
		r = NewReporter(out, log, styled)
	}
	r.now = func() time.Time { return time.Date(2024, 12, 1, 8, 5, 9, 0, time.Local) }
	return r
}

func TestReporterLines(t *testing.T) {
	var out bytes.Buffer
	r := fixedReporter(&out, nil, false)

	r.Infof("Creating %s", "venv")
	r.Successf("done")
	r.Warnf("requirements.txt not found")
	r.Errorf("Python is not installed")
	r.Println("plain")
	r.Headerf("Examples")

	assert.Equal(t, "[2024-12-01 08:05:09] Creating venv\n"+
		"[2024-12-01 08:05:09] done\n"+
		"[2024-12-01 08:05:09] WARNING: requirements.txt not found\n"+
		"[2024-12-01 08:05:09] ERROR: Python is not installed\n"+
		"plain\n"+
		"Examples\n", out.String())
}

func TestReporterLogCopyIsPlain(t *testing.T) {
	var out, log bytes.Buffer
	r := fixedReporter(&out, &log, true)

	r.Warnf("careful")
	r.Headerf("Examples")

	assert.Equal(t, "[2024-12-01 08:05:09] WARNING: careful\nExamples\n", log.String())
	assert.Contains(t, out.String(), "WARNING: careful")
}

func TestReporterWriterTees(t *testing.T) {
	var out, log bytes.Buffer
	r := fixedReporter(&out, &log, false)

	_, err := r.Writer().Write([]byte("pip output\n"))
	assert.NoError(t, err)
	assert.Equal(t, "pip output\n", out.String())
	assert.Equal(t, "pip output\n", log.String())
}

func TestReporterWithoutConsole(t *testing.T) {
	r := NewReporter(nil, nil, false)
	r.Infof("dropped")
	_, err := r.Writer().Write([]byte("dropped"))
	assert.NoError(t, err)
}
