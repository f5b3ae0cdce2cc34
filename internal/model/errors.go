package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTitle is returned when a title is blank after trimming.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrBudgetExceeded is returned when a change would push the sub-task
	// energy total above the parent task's energy cost.
	ErrBudgetExceeded = errors.New("sub-task energy exceeds task budget")

	// ErrNotFound is returned when a referenced task or sub-task is unknown.
	ErrNotFound = errors.New("not found")

	// ErrPersistence is returned when the store fails to commit a change.
	// The in-memory state has already been restored when it is seen.
	ErrPersistence = errors.New("persistence failed")

	// ErrInvalidEnergy is returned for non-positive energy values.
	ErrInvalidEnergy = errors.New("energy must be positive")

	// ErrEnergyNotSet is returned by callers that require today's energy
	// ceiling before marking a task complete.
	ErrEnergyNotSet = errors.New("today's energy has not been set")
)

// BudgetError describes a rejected sub-task allocation.
type BudgetError struct {
	TaskEnergy int // parent task's energy cost
	Allocated  int // energy already held by the other sub-tasks
	Requested  int // energy the rejected change asked for
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("%s: %d requested, %d of %d available",
		ErrBudgetExceeded, e.Requested, max(0, e.TaskEnergy-e.Allocated), e.TaskEnergy)
}

func (e *BudgetError) Is(target error) bool { return target == ErrBudgetExceeded }

// NotFoundError names the missing entity.
type NotFoundError struct {
	Kind string // "task" or "sub-task"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a store failure for the operation that caused it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a user-correctable input error, as
// opposed to a missing entity or a storage failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrBudgetExceeded) ||
		errors.Is(err, ErrInvalidEnergy) ||
		errors.Is(err, ErrEnergyNotSet)
}

// IsPersistence reports whether err (or any error in its chain) is a
// PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
