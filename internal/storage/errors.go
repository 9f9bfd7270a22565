package storage

import "errors"

var (
	// ErrEmptyKey is returned when a plan or log is written without its date/week key
	ErrEmptyKey = errors.New("plan key (date or week start) must not be empty")
	// ErrTaskNotFound is returned by task mutation when the plan holds no task with the id
	ErrTaskNotFound = errors.New("task not found in plan")
	// ErrCardNotFound is returned by card-scoped task mutation when the card is absent
	ErrCardNotFound = errors.New("card not found in plan")
	// ErrDuplicateLog is returned when a log id is appended twice
	ErrDuplicateLog = errors.New("log id already exists")
	// ErrNotInitialized is returned when a store is used before Init or Load
	ErrNotInitialized = errors.New("storage not initialized")
)
