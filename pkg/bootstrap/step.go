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
	"fmt"
)

type StepStatus int

const (
	StepDone StepStatus = iota
	StepSkipped
)

func (s StepStatus) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("StepStatus(%d)", int(s))
	}
}

// StepResult is the non-fatal outcome of a step. A fatal outcome is an
// error returned instead.
type StepResult struct {
	Status  StepStatus
	Message string
}

func done(format string, args ...any) StepResult {
	return StepResult{Status: StepDone, Message: fmt.Sprintf(format, args...)}
}

func skipped(format string, args ...any) StepResult {
	return StepResult{Status: StepSkipped, Message: fmt.Sprintf(format, args...)}
}

type Step struct {
	Name string
	Run  func(ctx context.Context, s *Session) (StepResult, error)
}

// StepRecord is the outcome of one completed step.
type StepRecord struct {
	Step   string
	Result StepResult
}

// StepError is a fatal failure in a named step. The message has already
// been reported when it is returned from Pipeline.Run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline runs steps strictly in order and stops at the first fatal error.
type Pipeline struct {
	Steps []Step
}

func (p *Pipeline) Run(ctx context.Context, s *Session) ([]StepRecord, error) {
	records := make([]StepRecord, 0, len(p.Steps))
	for _, step := range p.Steps {
		var result StepResult
		err := ctx.Err()
		if err == nil {
			result, err = step.Run(ctx, s)
		}
		if err != nil {
			s.Reporter.Errorf("%v", err)
			return records, &StepError{Step: step.Name, Err: err}
		}
		records = append(records, StepRecord{Step: step.Name, Result: result})
	}
	return records, nil
}
