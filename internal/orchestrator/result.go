package orchestrator

import (
	"time"

	"forge/internal/model"
	"forge/internal/validate"
)

// TaskResult is one task's final outcome, assembled after generation,
// script execution, validation, and workspace apply.
type TaskResult struct {
	TaskID     string
	Response   model.Response
	TierUsed   string
	Validation validate.Result
	DurationMS int64
	Err        error
}

// durationSince is a small helper so execute.go's call sites read as a
// single expression.
func durationSince(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
