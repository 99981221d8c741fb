//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the gold stages against a table store. Stages are
// grouped into dependency levels; a level runs concurrently and the next
// level starts only once every stage in it has committed or failed.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/gold"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/metrics"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Options controls one run.
type Options struct {
	// RunDate is "today" for the Age column. Zero means the current date.
	RunDate time.Time

	// Sequential runs one stage at a time.
	Sequential bool

	// Stages restricts the run to the named stages. Dependencies outside
	// the selection are assumed to have committed earlier.
	Stages []string

	// RunID labels committed versions. Empty generates one.
	RunID string

	Metrics *metrics.Recorder
}

// Pipeline runs a fixed set of stages against one store.
type Pipeline struct {
	store  store.Store
	stages []gold.Stage
	now    func() time.Time
}

// New creates a pipeline over stages.
func New(st store.Store, stages []gold.Stage) *Pipeline {
	return &Pipeline{store: st, stages: stages, now: time.Now}
}

// Stages returns the pipeline's stages in declaration order.
func (p *Pipeline) Stages() []gold.Stage {
	return p.stages
}

// Select returns the named stages in declaration order. No names selects
// all of them.
func (p *Pipeline) Select(names []string) ([]gold.Stage, error) {
	if len(names) == 0 {
		return p.stages, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []gold.Stage
	for _, s := range p.stages {
		if want[s.Name] {
			out = append(out, s)
			delete(want, s.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, errors.Wrapf(ErrUnknownStage, "%q", n)
		}
	}
	return out, nil
}

// Levels groups stages so that every stage comes after the stages it
// depends on. Dependencies not present in stages are ignored.
func Levels(stages []gold.Stage) ([][]gold.Stage, error) {
	present := make(map[string]bool, len(stages))
	for _, s := range stages {
		present[s.Name] = true
	}

	done := make(map[string]bool, len(stages))
	remaining := stages
	var levels [][]gold.Stage
	for len(remaining) > 0 {
		var level, next []gold.Stage
		for _, s := range remaining {
			ready := true
			for _, dep := range s.DependsOn {
				if present[dep] && !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, s)
			} else {
				next = append(next, s)
			}
		}
		if len(level) == 0 {
			return nil, errors.Wrapf(ErrDependencyCycle, "among %d stages", len(next))
		}
		for _, s := range level {
			done[s.Name] = true
		}
		levels = append(levels, level)
		remaining = next
	}
	return levels, nil
}

// Run executes the selected stages and returns a report. The error is
// non-nil when any stage did not commit; it joins every StageError.
// Failures stay local: stages that do not depend on a failed stage still
// commit.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	selected, err := p.Select(opts.Stages)
	if err != nil {
		return nil, err
	}
	levels, err := Levels(selected)
	if err != nil {
		return nil, err
	}

	runDate := opts.RunDate
	if runDate.IsZero() {
		runDate = p.now()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	report := &Report{
		RunID:   runID,
		RunDate: frame.Day(runDate),
		Started: p.now(),
	}
	env := gold.Env{RunDate: report.RunDate}
	ctx = store.WithRunID(ctx, runID)

	logging.Info().
		Str("run_id", runID).
		Str("run_date", report.RunDate.Format(time.DateOnly)).
		Int("stages", len(selected)).
		Int("levels", len(levels)).
		Msg("Starting gold build")

	var mu sync.Mutex
	results := make(map[string]StageResult, len(selected))

	for _, level := range levels {
		var g errgroup.Group
		if opts.Sequential {
			g.SetLimit(1)
		}
		for _, s := range level {
			g.Go(func() error {
				mu.Lock()
				blocked := blockedBy(s, results)
				mu.Unlock()

				var res StageResult
				if blocked != "" {
					res = p.skip(s, blocked)
				} else {
					res = p.runStage(ctx, s, env)
				}
				record(opts.Metrics, res)

				mu.Lock()
				results[s.Name] = res
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, s := range selected {
		report.Stages = append(report.Stages, results[s.Name])
	}
	report.Finished = p.now()

	runErr := report.Err()
	ev := logging.Info()
	if runErr != nil {
		ev = logging.Error().Err(runErr)
	}
	ev.Str("run_id", runID).
		Int("committed", report.Committed()).
		Int("failed", len(report.Failures())).
		Dur("took", report.Finished.Sub(report.Started)).
		Msg("Gold build finished")

	return report, runErr
}

// blockedBy returns the first dependency of s that ran in this pipeline
// without committing, or "".
func blockedBy(s gold.Stage, results map[string]StageResult) string {
	for _, dep := range s.DependsOn {
		if r, ran := results[dep]; ran && r.Status != Committed {
			return dep
		}
	}
	return ""
}

func (p *Pipeline) skip(s gold.Stage, dep string) StageResult {
	logging.Stage(s.Name).Warn().
		Str("dependency", dep).
		Msg("Skipping stage, dependency did not commit")

	return StageResult{
		Stage:  s.Name,
		Output: s.Output,
		Status: Skipped,
		Err: &StageError{
			Stage: s.Name,
			Path:  s.Output,
			Kind:  DependencyFailed,
			Err:   errors.Newf("dependency %q did not commit", dep),
		},
	}
}

func (p *Pipeline) runStage(ctx context.Context, s gold.Stage, env gold.Env) StageResult {
	log := logging.Stage(s.Name)
	start := p.now()
	res := StageResult{Stage: s.Name, Output: s.Output}

	fail := func(path string, kind Kind, err error) StageResult {
		res.Status = Failed
		res.Duration = p.now().Sub(start)
		res.Err = &StageError{Stage: s.Name, Path: path, Kind: kind, Err: err}
		log.Error().
			Err(err).
			Str("path", path).
			Str("kind", string(kind)).
			Dur("took", res.Duration).
			Msg("Stage failed")
		return res
	}

	log.Info().Strs("inputs", s.Inputs).Str("output", s.Output).Msg("Stage started")

	inputs := make(map[string]*frame.Table, len(s.Inputs))
	for _, path := range s.Inputs {
		t, err := p.store.Read(ctx, path)
		if err != nil {
			return fail(path, readKind(err), err)
		}
		log.Debug().Str("path", path).Int("rows", t.Len()).Msg("Read input")
		inputs[path] = t
	}

	built, err := s.Build(inputs, env)
	if err != nil {
		return fail(s.Output, buildKind(err), err)
	}

	if j := built.Join; j != nil {
		res.Join = j
		if j.Dropped() {
			log.Warn().
				Int("left_rows", j.LeftRows).
				Int("right_rows", j.RightRows).
				Int("output_rows", j.OutputRows).
				Int("orphan_left", j.OrphanLeft).
				Int("orphan_right", j.OrphanRight).
				Msg("Join dropped rows without a partner")
		}
	}

	v, err := p.store.Replace(ctx, s.Output, built.Table)
	if err != nil {
		return fail(s.Output, WriteFailure, err)
	}

	res.Status = Committed
	res.Version = v
	res.Rows = v.Rows
	res.Duration = p.now().Sub(start)

	log.Info().
		Str("path", s.Output).
		Int64("rows", v.Rows).
		Int64("version", v.Number).
		Dur("took", res.Duration).
		Msg("Stage committed")

	return res
}

func record(m *metrics.Recorder, res StageResult) {
	switch res.Status {
	case Committed:
		m.StageSucceeded(res.Stage, res.Rows, res.Duration, res.Version.WrittenAt)
	default:
		m.StageFailed(res.Stage, string(KindOf(res.Err)), res.Duration)
	}
	if res.Join != nil {
		m.JoinDropped(res.Stage, res.Join.OrphanLeft, res.Join.OrphanRight)
	}
}
