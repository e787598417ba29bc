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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStatusCleanCheckout(t *testing.T) {
	p := newTestProject(t)
	p.write(t, "requirements.txt", "flask==2.0.0\nrequests\n")
	s, err := NewSession(p.opts)
	require.NoError(t, err)

	st := CollectStatus(context.Background(), s)
	assert.True(t, st.Interpreter.Found)
	assert.Equal(t, "python3", st.Interpreter.Name)
	assert.Equal(t, "Python 3.11.4", st.Interpreter.Version)
	assert.False(t, st.Environment.Exists)
	assert.True(t, st.Manifest.Exists)
	assert.Equal(t, []string{"flask==2.0.0", "requests"}, st.Manifest.Requirements)
	assert.False(t, st.Database.Exists)
	assert.False(t, st.Ready())

	assert.False(t, p.exists("venv"), "status must not create anything")
	assert.False(t, p.exists(filepath.Join("database", "data.db")))
	for _, c := range p.runner.commands {
		assert.Equal(t, []string{"--version"}, c.Args)
	}
}

func TestCollectStatusAfterSetup(t *testing.T) {
	p := newTestProject(t)
	_, err := p.run(t)
	require.NoError(t, err)

	s, err := NewSession(p.opts)
	require.NoError(t, err)
	st := CollectStatus(context.Background(), s)
	assert.True(t, st.Environment.Usable)
	assert.True(t, st.Database.Exists)
	assert.Equal(t, []string{"todos", "users"}, st.Database.Tables)
	assert.True(t, st.Ready())

	var out bytes.Buffer
	PrintStatus(fixedReporter(&out, nil, false), st)
	assert.Contains(t, out.String(), "✓ interpreter")
	assert.Contains(t, out.String(), "✓ environment  venv")
	assert.Contains(t, out.String(), "✗ requirements requirements.txt (missing, optional)")
	assert.Contains(t, out.String(), "tables: todos, users")
}

func TestCollectStatusWithoutInterpreter(t *testing.T) {
	p := newTestProject(t)
	p.opts.LookPath = lookPathFor()
	s, err := NewSession(p.opts)
	require.NoError(t, err)

	st := CollectStatus(context.Background(), s)
	assert.False(t, st.Interpreter.Found)

	var out bytes.Buffer
	PrintStatus(fixedReporter(&out, nil, false), st)
	assert.Contains(t, out.String(), "✗ interpreter  Python is not installed")
}
