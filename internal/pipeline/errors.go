//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/gold"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Kind names the class of a stage failure.
type Kind string

const (
	// SourceNotFound: a required input table has never been committed.
	SourceNotFound Kind = "SourceNotFound"
	// ReadFailure: an input exists but could not be read.
	ReadFailure Kind = "ReadFailure"
	// EmptyFactRange: the calendar has no sales dates to anchor on.
	EmptyFactRange Kind = "EmptyFactRange"
	// TransformFailure: the stage's transform rejected its input.
	TransformFailure Kind = "TransformFailure"
	// WriteFailure: the store did not commit the output; the previous
	// table is still in place.
	WriteFailure Kind = "WriteFailure"
	// DependencyFailed: an upstream stage did not commit, so this stage
	// was not run.
	DependencyFailed Kind = "DependencyFailed"
)

var (
	// ErrUnknownStage is returned when a stage selection names no stage.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrDependencyCycle is returned when stage dependencies form a loop.
	ErrDependencyCycle = errors.New("stage dependency cycle")
)

// StageError is the error reported for a stage that did not commit. It
// names the table path involved and the kind of failure.
type StageError struct {
	Stage string
	Path  string
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s on %q: %v", e.Stage, e.Kind, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func readKind(err error) Kind {
	if errors.Is(err, store.ErrTableNotFound) {
		return SourceNotFound
	}
	return ReadFailure
}

func buildKind(err error) Kind {
	if errors.Is(err, gold.ErrEmptyFactRange) {
		return EmptyFactRange
	}
	return TransformFailure
}

// KindOf returns the Kind of the first StageError in err's chain, or "".
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
