// Copyright 2021-2024 LiveKit, Inc.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/livekit/protocol/logger"

	flasksetup "github.com/flask-examples/flask-setup"
	"github.com/flask-examples/flask-setup/pkg/bootstrap"
	"github.com/flask-examples/flask-setup/pkg/util"
)

func main() {
	app := newApp()

	// Register cleanup hook for SIGINT, SIGTERM, SIGQUIT
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		if !alreadyReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                   "flask-setup",
		Usage:                  "Prepare a local development environment for the Flask examples",
		Description:            "Finds a Python interpreter, creates and activates a virtual environment, installs requirements.txt and initializes the example database. Every step is skipped when its result already exists, so running it again is safe.",
		Version:                flasksetup.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Commands:               SetupCommands,
		Action:                 logFailures(runSetup),
		Before:                 initLogger,
		After:                  closeLogFile,
	}
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logConfig := &logger.Config{
		Level: "info",
	}
	if cmd.Bool("verbose") {
		logConfig.Level = "debug"
	}
	logger.InitFromConfig(logConfig, "flask-setup")

	if path := cmd.String("log-file"); path != "" {
		f, err := util.OpenLogFile(path)
		if err != nil {
			return nil, err
		}
		logFile = f
		logger.Debugw("duplicating output", "file", path)
	}
	return nil, nil
}

func closeLogFile(ctx context.Context, cmd *cli.Command) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// logFailures copies an action's error into the log file. main prints it
// to stderr once the log file has been closed.
func logFailures(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		err := action(ctx, cmd)
		if err != nil && logFile != nil && !alreadyReported(err) {
			bootstrap.NewReporter(nil, logFile, false).Errorf("%v", err)
		}
		return err
	}
}

func newReporter(cmd *cli.Command) *bootstrap.Reporter {
	var log io.Writer
	if logFile != nil {
		log = logFile
	}
	return bootstrap.NewReporter(os.Stdout, log, util.IsTerminal(os.Stdout) && !cmd.Bool("no-color"))
}

// exitCode is 1 for setup's own failures and the tool's status when an
// external command failed.
func exitCode(err error) int {
	var cmdErr *bootstrap.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}

// Step failures are printed by the pipeline as they happen.
func alreadyReported(err error) bool {
	var stepErr *bootstrap.StepError
	return errors.As(err, &stepErr)
}
