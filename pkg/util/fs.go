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

package util

import (
	"os"
	"path/filepath"
)

// FileExists reports whether filename inside dir is a regular file,
// following symlinks.
func FileExists(dir, filename string) bool {
	if dir == "" || filename == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, filename))
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path is a directory, following symlinks.
func DirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Converts a path (possibly Windows-style) to a Unix-style path.
func ToUnixPath(p string) string {
	clean := filepath.Clean(p)
	return filepath.ToSlash(clean)
}
