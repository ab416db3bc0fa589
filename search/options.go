// Package search runs exhaustive and sampled searches for rotation-symmetric
// functions meeting a resiliency and an algebraic immunity target.
//
// Long searches are resumable: every driver keeps a checkpoint next to an
// append-only result log, and restarting the same job continues after the
// last checkpointed candidate.
package search

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dahu/prof"
	"dahu/rsf"
)

// Options carries the collaborators of a driver. Every field is optional.
type Options struct {
	Logger  *slog.Logger
	Metrics *Metrics
	// Profile receives phase timings; the process-wide collector by default.
	Profile *prof.Collector
	// Caches are shared with other drivers of the process when set.
	Caches *rsf.Caches
	// RunID tags result records and checkpoints; a random UUID by default.
	RunID string

	now func() time.Time
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) metrics() *Metrics {
	if o == nil {
		return nil
	}
	return o.Metrics
}

func (o *Options) profile() *prof.Collector {
	if o == nil || o.Profile == nil {
		return prof.Global()
	}
	return o.Profile
}

func (o *Options) caches() (rsf.Caches, error) {
	if o != nil && o.Caches != nil {
		return *o.Caches, nil
	}
	return rsf.NewCaches()
}

func (o *Options) runID() string {
	if o != nil && o.RunID != "" {
		return o.RunID
	}
	return uuid.NewString()
}

func (o *Options) clock() time.Time {
	if o != nil && o.now != nil {
		return o.now()
	}
	return time.Now()
}
