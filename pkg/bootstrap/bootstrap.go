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

// This package provisions the local development environment for the Flask
// examples: it finds a Python interpreter, creates and activates a virtual
// environment, installs the requirements and initializes the example
// database, skipping every step whose result is already present.
package bootstrap

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var defaultExamples []byte

type Example struct {
	Name string `yaml:"name" json:"name"`
	Desc string `yaml:"desc" json:"desc"`
	File string `yaml:"file" json:"file"`
}

// DefaultExamples returns the example applications shipped with the
// repository.
func DefaultExamples() ([]Example, error) {
	return decodeExamples(bytes.NewReader(defaultExamples))
}

// LoadExamples reads an example index from path, or returns the default
// index when path is empty.
func LoadExamples(path string) ([]Example, error) {
	if path == "" {
		return DefaultExamples()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	examples, err := decodeExamples(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", filepath.Base(path))
	}
	return examples, nil
}

func decodeExamples(r io.Reader) ([]Example, error) {
	var examples []Example
	if err := yaml.NewDecoder(r).Decode(&examples); err != nil {
		return nil, err
	}
	for i, e := range examples {
		if e.Name == "" {
			return nil, errors.Errorf("example %d has no name", i+1)
		}
	}
	return examples, nil
}

// ReadDotEnv returns the KEY=VALUE pairs of a .env file, sorted by key. A
// missing file yields no pairs.
func ReadDotEnv(path string) ([]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	envMap, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+envMap[k])
	}
	return pairs, nil
}
