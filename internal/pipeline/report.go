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
	"io"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Status is the outcome of one stage.
type Status string

const (
	Committed Status = "committed"
	Failed    Status = "failed"
	Skipped   Status = "skipped"
)

// StageResult records what one stage did.
type StageResult struct {
	Stage    string
	Output   string
	Status   Status
	Rows     int64
	Version  store.Version
	Duration time.Duration
	Join     *frame.JoinStats
	Err      error
}

// Report summarizes a run. Stages are listed in catalogue order.
type Report struct {
	RunID    string
	RunDate  time.Time
	Started  time.Time
	Finished time.Time
	Stages   []StageResult
}

// Stage returns the result for the named stage.
func (r *Report) Stage(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageResult{}, false
}

// Committed returns the number of stages that committed a new version.
func (r *Report) Committed() int {
	n := 0
	for _, s := range r.Stages {
		if s.Status == Committed {
			n++
		}
	}
	return n
}

// Failures returns the results of stages that did not commit.
func (r *Report) Failures() []StageResult {
	var out []StageResult
	for _, s := range r.Stages {
		if s.Status != Committed {
			out = append(out, s)
		}
	}
	return out
}

// Err joins the errors of every stage that did not commit, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, s := range r.Failures() {
		errs = append(errs, s.Err)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// Print writes a per-stage summary table.
func (r *Report) Print(w io.Writer) error {
	fmt.Fprintf(w, "Run %s (run date %s)\n\n", r.RunID, r.RunDate.Format(time.DateOnly))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tOUTPUT\tSTATUS\tROWS\tVERSION\tTOOK\tDETAIL")
	for _, s := range r.Stages {
		version, rows := "-", "-"
		if s.Status == Committed {
			version = fmt.Sprint(s.Version.Number)
			rows = fmt.Sprint(s.Rows)
		}
		detail := ""
		switch {
		case s.Err != nil:
			detail = string(KindOf(s.Err))
		case s.Join != nil && s.Join.Dropped():
			detail = fmt.Sprintf("dropped %d lines without invoice, %d invoices without lines",
				s.Join.OrphanLeft, s.Join.OrphanRight)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Stage, s.Output, s.Status, rows, version,
			s.Duration.Round(time.Millisecond), detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range r.Failures() {
		fmt.Fprintf(w, "\n%s: %v\n", s.Stage, s.Err)
	}
	return nil
}
