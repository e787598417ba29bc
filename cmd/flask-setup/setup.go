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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/livekit/protocol/logger"

	"github.com/flask-examples/flask-setup/pkg/bootstrap"
	"github.com/flask-examples/flask-setup/pkg/config"
	"github.com/flask-examples/flask-setup/pkg/util"
)

var SetupCommands = []*cli.Command{
	{
		Name:   "run",
		Usage:  "Provision the environment (the default when no command is given)",
		Action: logFailures(runSetup),
	},
	{
		Name:   "status",
		Usage:  "Show which setup steps have already been completed",
		Flags:  []cli.Flag{jsonFlag},
		Action: logFailures(showStatus),
	},
	{
		Name:   "examples",
		Usage:  "List the example applications",
		Flags:  []cli.Flag{jsonFlag},
		Action: logFailures(listExamples),
	},
	{
		Name:  "config",
		Usage: "Print the effective configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Save the effective configuration as the project config file",
			},
		},
		Action: logFailures(showConfig),
	},
}

func loadConfig() (*config.SetupConfig, error) {
	cfg, exists, err := config.LoadTOMLFile(projectDir, tomlFilename)
	if err != nil {
		return nil, err
	}
	logger.Debugw("loaded setup config", "file", tomlFilename, "exists", exists)
	return cfg, nil
}

func loadSession(cmd *cli.Command) (*bootstrap.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	await := util.Direct
	if util.IsTerminal(os.Stdout) && !cmd.Bool("no-spinner") && !cmd.Bool("verbose") {
		await = util.Await
	}
	return bootstrap.NewSession(bootstrap.Options{
		Root:     projectDir,
		Config:   cfg,
		FlaskApp: cmd.String("flask-app"),
		Reporter: newReporter(cmd),
		Await:    await,
	})
}

func runSetup(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	records, err := bootstrap.Setup(ctx, s)
	for _, r := range records {
		logger.Debugw("step finished", "step", r.Step, "status", r.Result.Status.String(), "result", r.Result.Message)
	}
	return err
}

func showStatus(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	st := bootstrap.CollectStatus(ctx, s)
	if cmd.Bool("json") {
		util.PrintJSON(st)
		return nil
	}
	bootstrap.PrintStatus(s.Reporter, st)
	if !st.Ready() {
		fmt.Println("\nRun " + util.Accented("flask-setup") + " to complete the remaining steps.")
	}
	return nil
}

func listExamples(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := ""
	if cfg.Examples != "" {
		path = cfg.Examples
		if !util.FileExists(projectDir, path) {
			return fmt.Errorf("examples index %s not found", path)
		}
		path = filepath.Join(projectDir, path)
	}
	examples, err := bootstrap.LoadExamples(path)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		util.PrintJSON(examples)
		return nil
	}
	for _, e := range examples {
		fmt.Printf("%s  %s\n", util.Accented(e.Name), util.Dimmed(e.Desc))
		fmt.Printf("  python %s\n", e.File)
	}
	return nil
}

func showConfig(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Bool("write") {
		if err := cfg.SaveTOMLFile(projectDir, tomlFilename); err != nil {
			return err
		}
		fmt.Printf("Saved config file [%s]\n", util.Accented(tomlFilename))
		return nil
	}
	return cfg.WriteTOML(os.Stdout)
}
