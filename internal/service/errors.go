package service

import (
	"errors"
	"fmt"
	"strings"
)

// --- Error Definitions ---
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnknownReference  = errors.New("unknown reference")
	ErrPlanNotFound      = errors.New("training plan not found")
	ErrPlanDayNotFound   = errors.New("plan day not found")
	ErrInvalidDayNumber  = errors.New("day number must be between 1 and 4")
	ErrTraineeNotFound   = errors.New("trainee not found")
	ErrInvalidTransition = errors.New("invalid day transition")
	ErrPlanCancelled     = errors.New("training plan is cancelled")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTaskBlockNotFound = errors.New("task block not found")
	ErrExportUnavailable = errors.New("plan export is not configured")
)

// ValidationError lists the request fields at fault. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "missing or invalid fields"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ReferenceError names ids in a request that do not resolve. It matches ErrUnknownReference.
type ReferenceError struct {
	Kind string // "task" or "topic"
	IDs  []string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s ids: %s", e.Kind, strings.Join(e.IDs, ", "))
}

func (e *ReferenceError) Is(target error) bool { return target == ErrUnknownReference }
