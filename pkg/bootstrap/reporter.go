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
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/flask-examples/flask-setup/pkg/util"
)

const timestampLayout = "2006-01-02 15:04:05"

// Reporter prints timestamped progress lines. The console copy is styled
// when requested; the log copy is always plain text.
type Reporter struct {
	out    io.Writer
	log    io.Writer
	styled bool
	now    func() time.Time
}

func NewReporter(out, log io.Writer, styled bool) *Reporter {
	return &Reporter{
		out:    out,
		log:    log,
		styled: styled,
		now:    time.Now,
	}
}

// Writer returns the destination for external command output.
func (r *Reporter) Writer() io.Writer {
	out := r.out
	if out == nil {
		out = io.Discard
	}
	return util.Tee(out, r.log)
}

func (r *Reporter) Infof(format string, args ...any) {
	r.line(util.InfoStyle, "", fmt.Sprintf(format, args...))
}

func (r *Reporter) Successf(format string, args ...any) {
	r.line(util.SuccessStyle, "", fmt.Sprintf(format, args...))
}

func (r *Reporter) Warnf(format string, args ...any) {
	r.line(util.WarningStyle, "WARNING: ", fmt.Sprintf(format, args...))
}

func (r *Reporter) Errorf(format string, args ...any) {
	r.line(util.ErrorStyle, "ERROR: ", fmt.Sprintf(format, args...))
}

// Println writes text without a timestamp.
func (r *Reporter) Println(text string) {
	r.write(text+"\n", text+"\n")
}

func (r *Reporter) Headerf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	styled := text
	if r.styled {
		styled = util.HeaderStyle.Render(text)
	}
	r.write(styled+"\n", text+"\n")
}

func (r *Reporter) line(style lipgloss.Style, prefix, msg string) {
	ts := "[" + r.now().Format(timestampLayout) + "]"
	plain := ts + " " + prefix + msg + "\n"
	if !r.styled {
		r.write(plain, plain)
		return
	}
	styled := util.TimestampStyle.Render(ts) + " " + style.Render(prefix+msg) + "\n"
	r.write(styled, plain)
}

func (r *Reporter) write(console, plain string) {
	if r.out != nil {
		_, _ = io.WriteString(r.out, console)
	}
	if r.log != nil {
		_, _ = io.WriteString(r.log, plain)
	}
}
