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
	"os"

	"github.com/urfave/cli/v3"

	"github.com/flask-examples/flask-setup/pkg/config"
)

var (
	projectDir   string = "."
	tomlFilename string = config.SetupTOMLFile
	logFile      *os.File

	jsonFlag = &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}
	noSpinnerFlag = &cli.BoolFlag{
		Name:  "no-spinner",
		Usage: "Never animate long-running steps",
	}
	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"C"},
			Usage:       "Project `DIR` containing requirements.txt and the database directory",
			Value:       ".",
			Destination: &projectDir,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Config `TOML` to use in the project directory",
			Sources:     cli.EnvVars("FLASK_SETUP_CONFIG"),
			Value:       config.SetupTOMLFile,
			Destination: &tomlFilename,
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "Also append all output to `FILE`",
			Sources: cli.EnvVars("LOG_FILE"),
		},
		&cli.StringFlag{
			Name:  "flask-app",
			Usage: "Flask application `ENTRYPOINT` used to initialize the database (default from config)",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable styled output",
		},
		&cli.BoolFlag{
			Name:     "verbose",
			Required: false,
		},
		hidden(noSpinnerFlag),
	}
)

func hidden[T any, C any, VC cli.ValueCreator[T, C]](flag *cli.FlagBase[T, C, VC]) *cli.FlagBase[T, C, VC] {
	newFlag := *flag
	newFlag.Hidden = true
	return &newFlag
}
