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
	"database/sql"
	"os"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DatabaseInfo describes an initialized example database.
type DatabaseInfo struct {
	Path   string   `json:"path"`
	Size   int64    `json:"size"`
	Tables []string `json:"tables"`
}

// InspectDatabase opens an existing SQLite file read-only and lists its
// user tables. It never creates the file.
func InspectDatabase(ctx context.Context, path string) (*DatabaseInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	defer db.Close()
	// the pragma is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}

	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not a readable SQLite database", path)
	}
	defer rows.Close()

	info := &DatabaseInfo{Path: path, Size: stat.Size(), Tables: []string{}}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan table name")
		}
		info.Tables = append(info.Tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	return info, nil
}
