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

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/livekit/protocol/logger"
)

const (
	SetupTOMLFile = "flask-setup.toml"

	DefaultVenvDir          = "venv"
	DefaultRequirementsFile = "requirements.txt"
	DefaultDatabaseDir      = "database"
	DefaultDatabaseFile     = "data.db"
	DefaultFlaskApp         = "app.py"
	DefaultInitCommand      = "init-db"
	DefaultEnvFile          = ".env"
)

var (
	DefaultInterpreters = []string{"python3", "python"}

	ErrInvalidConfig     = errors.New("invalid configuration file")
	ErrNoInterpreters    = fmt.Errorf("python.candidates must name at least one interpreter: %w", ErrInvalidConfig)
	ErrEmptyInterpreter  = fmt.Errorf("python.candidates cannot contain an empty name: %w", ErrInvalidConfig)
	ErrEscapesProjectDir = fmt.Errorf("path must stay inside the project directory: %w", ErrInvalidConfig)
)

type SetupConfig struct {
	VenvDir      string          `toml:"venv_dir"`
	Requirements string          `toml:"requirements"`
	Examples     string          `toml:"examples,omitempty"`
	Python       *PythonConfig   `toml:"python"`
	Database     *DatabaseConfig `toml:"database"`
}

type PythonConfig struct {
	Candidates []string `toml:"candidates"`
	// Empty means any version found on PATH is accepted.
	MinVersion string `toml:"min_version,omitempty"`
}

type DatabaseConfig struct {
	Dir         string `toml:"dir"`
	File        string `toml:"file"`
	App         string `toml:"app"`
	InitCommand string `toml:"init_command"`
	EnvFile     string `toml:"env_file"`
}

func Default() *SetupConfig {
	c := &SetupConfig{}
	c.applyDefaults()
	return c
}

func (c *SetupConfig) applyDefaults() {
	if c.VenvDir == "" {
		c.VenvDir = DefaultVenvDir
	}
	if c.Requirements == "" {
		c.Requirements = DefaultRequirementsFile
	}
	if c.Python == nil {
		c.Python = &PythonConfig{}
	}
	if c.Python.Candidates == nil {
		c.Python.Candidates = append([]string(nil), DefaultInterpreters...)
	}
	if c.Database == nil {
		c.Database = &DatabaseConfig{}
	}
	d := c.Database
	if d.Dir == "" {
		d.Dir = DefaultDatabaseDir
	}
	if d.File == "" {
		d.File = DefaultDatabaseFile
	}
	if d.App == "" {
		d.App = DefaultFlaskApp
	}
	if d.InitCommand == "" {
		d.InitCommand = DefaultInitCommand
	}
	if d.EnvFile == "" {
		d.EnvFile = DefaultEnvFile
	}
}

func (c *SetupConfig) Validate() error {
	if len(c.Python.Candidates) == 0 {
		return ErrNoInterpreters
	}
	for _, name := range c.Python.Candidates {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyInterpreter
		}
	}
	for key, p := range map[string]string{
		"venv_dir":          c.VenvDir,
		"requirements":      c.Requirements,
		"database.dir":      c.Database.Dir,
		"database.file":     c.Database.File,
		"database.env_file": c.Database.EnvFile,
		"examples":          c.Examples,
	} {
		if escapesDir(p) {
			return fmt.Errorf("%s %q: %w", key, p, ErrEscapesProjectDir)
		}
	}
	return nil
}

// escapesDir reports whether p points outside the directory it is relative to.
func escapesDir(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	clean := filepath.Clean(p)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

// DatabasePath is the database file relative to the project directory.
func (c *SetupConfig) DatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.File)
}

func (c *SetupConfig) SaveTOMLFile(dir string, tomlFileName string) error {
	f, err := os.Create(filepath.Join(dir, tomlFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	return c.WriteTOML(f)
}

func (c *SetupConfig) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}
	return nil
}

// LoadTOMLFile reads the project configuration from dir. A missing file is
// not an error: defaults are returned and the second value reports false.
func LoadTOMLFile(dir string, tomlFileName string) (*SetupConfig, bool, error) {
	logger.Debugw("loading setup config", "file", tomlFileName)

	tomlFile := filepath.Join(dir, tomlFileName)
	if _, err := os.Stat(tomlFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), false, nil
		}
		return nil, true, err
	}

	config := &SetupConfig{}
	if _, err := toml.DecodeFile(tomlFile, config); err != nil {
		return nil, true, fmt.Errorf("%s: %w", tomlFileName, errors.Join(ErrInvalidConfig, err))
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, true, err
	}
	return config, true, nil
}
