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
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/flask-examples/flask-setup/pkg/config"
	"github.com/flask-examples/flask-setup/pkg/util"
)

type Options struct {
	// Root is the project directory every configured path is relative to.
	Root   string
	Config *config.SetupConfig
	// FlaskApp overrides Config.Database.App when set.
	FlaskApp string
	Runner   CommandRunner
	Reporter *Reporter
	LookPath LookPathFunc
	Await    util.AwaitFunc
	// BaseEnv is the environment activation starts from.
	BaseEnv []string
}

// Session carries the configuration and the state produced by earlier
// steps to later ones.
type Session struct {
	Options

	Interpreter *Interpreter
	Environment *Environment
	// Env is the activated child environment, set by the activation step.
	Env []string
}

func NewSession(opts Options) (*Session, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrap(err, "invalid project directory")
	}
	opts.Root = root
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Reporter == nil {
		opts.Reporter = NewReporter(os.Stdout, nil, false)
	}
	if opts.Runner == nil {
		w := opts.Reporter.Writer()
		opts.Runner = NewExecRunner(w, w)
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Await == nil {
		opts.Await = util.Direct
	}
	if opts.BaseEnv == nil {
		opts.BaseEnv = os.Environ()
	}
	return &Session{Options: opts}, nil
}

func (s *Session) path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *Session) flaskApp() string {
	if s.FlaskApp != "" {
		return s.FlaskApp
	}
	return s.Config.Database.App
}

func (s *Session) examples() ([]Example, error) {
	if s.Config.Examples == "" {
		return DefaultExamples()
	}
	return LoadExamples(s.path(s.Config.Examples))
}

// SetupSteps returns the provisioning steps in the order they must run.
func SetupSteps() []Step {
	return []Step{
		{Name: "interpreter", Run: discoverInterpreter},
		{Name: "environment", Run: provisionEnvironment},
		{Name: "activate", Run: activateEnvironment},
		{Name: "installer", Run: upgradeInstaller},
		{Name: "dependencies", Run: installDependencies},
		{Name: "database", Run: initializeDatabase},
		{Name: "summary", Run: printCompletion},
	}
}

// Setup runs every provisioning step against the session.
func Setup(ctx context.Context, s *Session) ([]StepRecord, error) {
	p := &Pipeline{Steps: SetupSteps()}
	return p.Run(ctx, s)
}

func discoverInterpreter(ctx context.Context, s *Session) (StepResult, error) {
	s.Reporter.Infof("Checking for Python installation...")
	interp, err := DiscoverInterpreter(s.Config.Python.Candidates, s.LookPath)
	if err != nil {
		return StepResult{}, err
	}
	if err := interp.ProbeVersion(ctx, s.Runner); err != nil {
		return StepResult{}, err
	}
	if err := interp.CheckMinimum(s.Config.Python.MinVersion); err != nil {
		return StepResult{}, err
	}
	s.Interpreter = interp
	s.Reporter.Successf("Found %s (%s)", interp, interp.Name)
	return done("using %s", interp.Path), nil
}

func provisionEnvironment(ctx context.Context, s *Session) (StepResult, error) {
	dir := s.Config.VenvDir
	if util.DirExists(s.path(dir)) {
		s.Reporter.Infof("Virtual environment already exists at %s", dir)
		return skipped("%s already exists", dir), nil
	}

	s.Reporter.Infof("Creating virtual environment in %s...", dir)
	err := s.Runner.Run(ctx, Command{
		Name: s.Interpreter.Path,
		Args: []string{"-m", "venv", dir},
		Dir:  s.Root,
	})
	if err != nil {
		return StepResult{}, errors.Wrap(err, "failed to create virtual environment")
	}
	s.Reporter.Successf("Virtual environment created")
	return done("created %s", dir), nil
}

func activateEnvironment(_ context.Context, s *Session) (StepResult, error) {
	env := NewEnvironment(s.path(s.Config.VenvDir))
	if !env.HasInterpreter() {
		return StepResult{}, errors.Errorf(
			"virtual environment %s has no Python interpreter, remove it and run setup again",
			s.Config.VenvDir)
	}
	s.Environment = env
	s.Env = env.Activate(s.BaseEnv)
	s.Reporter.Infof("Activated virtual environment %s", s.Config.VenvDir)
	return done("activated %s", env.Dir), nil
}

func upgradeInstaller(ctx context.Context, s *Session) (StepResult, error) {
	s.Reporter.Infof("Upgrading pip...")
	cmd := Command{
		Name:  s.Environment.Python(),
		Args:  []string{"-m", "pip", "install", "--upgrade", "pip", "--quiet"},
		Dir:   s.Root,
		Env:   s.Env,
		Quiet: true,
	}
	err := s.Await("Upgrading pip", ctx, func(ctx context.Context) error {
		return s.Runner.Run(ctx, cmd)
	})
	if err != nil {
		return StepResult{}, errors.Wrap(err, "failed to upgrade pip")
	}
	return done("pip upgraded"), nil
}

func installDependencies(ctx context.Context, s *Session) (StepResult, error) {
	manifest := s.Config.Requirements
	if !util.FileExists(s.Root, manifest) {
		s.Reporter.Warnf("%s not found, skipping dependency installation", manifest)
		if deps, err := PyprojectDependencies(s.path(PyprojectFile)); err == nil && len(deps) > 0 {
			s.Reporter.Warnf("%s declares %d dependencies; install them with: pip install -e .",
				PyprojectFile, len(deps))
		}
		return skipped("%s not found", manifest), nil
	}

	reqs, err := ReadRequirements(s.path(manifest))
	if err != nil {
		return StepResult{}, err
	}

	s.Reporter.Infof("Installing dependencies from %s...", manifest)
	cmd := Command{
		Name:  s.Environment.Python(),
		Args:  []string{"-m", "pip", "install", "-r", manifest, "--quiet"},
		Dir:   s.Root,
		Env:   s.Env,
		Quiet: true,
	}
	err = s.Await("Installing dependencies", ctx, func(ctx context.Context) error {
		return s.Runner.Run(ctx, cmd)
	})
	if err != nil {
		return StepResult{}, errors.Wrapf(err, "failed to install dependencies from %s", manifest)
	}
	s.Reporter.Successf("Dependencies installed (%d packages)", len(reqs))
	return done("installed %d packages", len(reqs)), nil
}

func initializeDatabase(ctx context.Context, s *Session) (StepResult, error) {
	db := s.Config.Database
	dir := s.path(db.Dir)
	rel := s.Config.DatabasePath()
	if !util.DirExists(dir) {
		return StepResult{}, errors.Errorf("database directory %s not found", db.Dir)
	}
	if util.FileExists(dir, db.File) {
		s.Reporter.Infof("Database %s already exists, skipping initialization", rel)
		return skipped("%s already exists", rel), nil
	}

	dotenv, err := ReadDotEnv(filepath.Join(dir, db.EnvFile))
	if err != nil {
		return StepResult{}, err
	}
	env := WithEnv(WithEnv(s.Env, dotenv...), "FLASK_APP="+s.flaskApp())

	s.Reporter.Infof("Initializing database %s...", rel)
	err = s.Runner.Run(ctx, Command{
		Name: s.Environment.Executable("flask"),
		Args: []string{db.InitCommand},
		Dir:  dir,
		Env:  env,
	})
	if err != nil {
		return StepResult{}, errors.Wrap(err, "failed to initialize database")
	}

	info, err := InspectDatabase(ctx, filepath.Join(dir, db.File))
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.Reporter.Warnf("flask %s finished but %s was not created", db.InitCommand, rel)
		return done("init command ran, %s missing", rel), nil
	case err != nil:
		s.Reporter.Warnf("Database %s could not be inspected: %v", rel, err)
		return done("initialized %s", rel), nil
	}
	s.Reporter.Successf("Database initialized (%d tables)", len(info.Tables))
	return done("initialized %s", rel), nil
}

func printCompletion(_ context.Context, s *Session) (StepResult, error) {
	examples, err := s.examples()
	if err != nil {
		return StepResult{}, err
	}
	s.Reporter.Successf("Setup complete!")
	PrintSummary(s.Reporter, s.Config.VenvDir, examples)
	return done("%d examples available", len(examples)), nil
}
