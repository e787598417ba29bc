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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirements(t *testing.T) {
	content := `# web framework
flask==2.0.0
requests[security] >= 2.28  # http client
-r base.txt
--index-url https://pypi.org/simple

Werkzeug
gunicorn; sys_platform != "win32"
click @ git+https://github.com/pallets/click
python-dotenv \
    ~=1.0
`
	reqs, err := ParseRequirements(strings.NewReader(content))
	require.NoError(t, err)

	var names []string
	for _, r := range reqs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"flask", "requests", "Werkzeug", "gunicorn", "click", "python-dotenv"}, names)
	assert.Equal(t, "==2.0.0", reqs[0].Spec)
	assert.Equal(t, "flask==2.0.0", reqs[0].String())
	assert.Equal(t, "[security] >= 2.28", reqs[1].Spec)
	assert.Equal(t, "", reqs[2].Spec)
	assert.Equal(t, "~=1.0", reqs[5].Spec)
}

func TestParseRequirementsTrailingContinuation(t *testing.T) {
	reqs, err := ParseRequirements(strings.NewReader("flask==2.0.0\nrequests \\"))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "requests", reqs[1].Name)
	assert.Equal(t, "", reqs[1].Spec)
}

func TestParseRequirementsEmpty(t *testing.T) {
	reqs, err := ParseRequirements(strings.NewReader("# nothing here\n\n"))
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestReadRequirementsMissing(t *testing.T) {
	_, err := ReadRequirements(filepath.Join(t.TempDir(), "requirements.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPyprojectDependencies(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
		wantErr  bool
	}{
		{
			name: "project dependencies",
			content: `[project]
name = "demo"
dependencies = ["flask>=2.0", "requests"]`,
			expected: []string{"flask>=2.0", "requests"},
		},
		{
			name: "poetry only",
			content: `[tool.poetry.dependencies]
flask = "^2.0"`,
		},
		{
			name:    "malformed",
			content: `[project`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), PyprojectFile)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			deps, err := PyprojectDependencies(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, deps)
		})
	}
}
