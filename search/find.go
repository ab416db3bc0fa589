package search

import (
	"context"
	"log/slog"
	"os"
	"time"

	"dahu/internal/errors"
	"dahu/rsf"
	"dahu/symmetry"
	"dahu/transform"
)

// plan is the shape of one enumeration: a SANF template whose free entries
// are driven by a counter.
type plan struct {
	prefix string
	job    Job
	base   []uint8
	free   []int
}

// bands splits the representatives of t around the maximal useful degree
// ⌊(l+1)/2⌋: [0, nLow) have smaller weight, [nLow, nLow+nMax) have exactly that
// weight, the rest is higher.
func bands(t *symmetry.Tables) (maxDegree, nLow, nMax int) {
	maxDegree = (t.L + 1) / 2
	nLow = t.PrefixLen(maxDegree - 1)
	nMax = t.PrefixLen(maxDegree) - nLow
	return maxDegree, nLow, nMax
}

// FindRSF searches the RSFs of degree at most ⌊(l+1)/2⌋ meeting the job's
// targets. Representatives of higher degree are set to 0. When
// job.MaxDegreeSANF has one entry per representative of maximal degree it
// fixes them; otherwise they are searched too. job.MinDegreeSANF fixes the
// leading entries of the SANF.
//
// Hits are appended to <ResultDir>/rsf-….jsonl and progress is checkpointed
// to <CheckpointDir>/rsf-….json. It returns the number of hits of this call,
// 0 when the checkpoint says the job is already complete. The Found count of
// the checkpoint and of the end sentinel is the number of distinct hits in the
// result log.
func FindRSF(ctx context.Context, job Job, opts *Options) (int, error) {
	if err := job.Validate(); err != nil {
		return 0, err
	}
	c, err := opts.caches()
	if err != nil {
		return 0, err
	}
	t, err := c.Symmetry.Get(job.Locality)
	if err != nil {
		return 0, err
	}
	maxDegree, nLow, nMax := bands(t)
	log := opts.logger()
	log.Info("search bands",
		slog.Int("max_degree", maxDegree),
		slog.Int("representatives", t.N()),
		slog.Int("max_degree_representatives", nMax),
		slog.Int("low_degree_representatives", nLow))

	p := plan{prefix: "rsf", job: job, base: make([]uint8, t.N())}
	if len(job.MaxDegreeSANF) != nMax {
		log.Info("no valid maximal degree SANF given, searching it exhaustively",
			slog.Int("given", len(job.MaxDegreeSANF)), slog.Int("want", nMax))
		p.job.MaxDegreeSANF = Bits{}
		nLow += nMax
	}
	if len(job.MinDegreeSANF) > nLow {
		return 0, errors.InvalidArgument("min degree SANF", "length %d, at most %d representatives are free", len(job.MinDegreeSANF), nLow)
	}
	copy(p.base, job.MinDegreeSANF)
	copy(p.base[nLow:], p.job.MaxDegreeSANF)
	for i := len(job.MinDegreeSANF); i < nLow; i++ {
		p.free = append(p.free, i)
	}
	return run(ctx, c, p, opts)
}

// FindRSFWithCoverage is FindRSF restricted to the low degree
// representatives covered by one of the maximal degree representatives set in
// job.MaxDegreeSANF, which is required. Uncovered representatives are set to
// 0 and job.MinDegreeSANF fixes the leading covered ones.
func FindRSFWithCoverage(ctx context.Context, job Job, opts *Options) (int, error) {
	if err := job.Validate(); err != nil {
		return 0, err
	}
	c, err := opts.caches()
	if err != nil {
		return 0, err
	}
	t, err := c.Symmetry.Get(job.Locality)
	if err != nil {
		return 0, err
	}
	maxDegree, nLow, nMax := bands(t)
	if len(job.MaxDegreeSANF) != nMax {
		return 0, errors.InvalidArgument("max degree SANF", "length %d, want %d", len(job.MaxDegreeSANF), nMax)
	}

	var selected, covered []int
	for i, b := range job.MaxDegreeSANF {
		if b == 1 {
			selected = append(selected, nLow+i)
		}
	}
	for j := 0; j < nLow; j++ {
		for _, i := range selected {
			if t.Cover(i, j) {
				covered = append(covered, j)
				break
			}
		}
	}
	opts.logger().Info("search bands",
		slog.Int("max_degree", maxDegree),
		slog.Int("representatives", t.N()),
		slog.Int("max_degree_representatives", nMax),
		slog.Int("low_degree_representatives", nLow),
		slog.Int("covered_representatives", len(covered)))
	if len(job.MinDegreeSANF) > len(covered) {
		return 0, errors.InvalidArgument("min degree SANF", "length %d, only %d representatives are covered", len(job.MinDegreeSANF), len(covered))
	}

	p := plan{prefix: "rsf-c", job: job, base: make([]uint8, t.N())}
	copy(p.base[nLow:], job.MaxDegreeSANF)
	for k, j := range covered {
		if k < len(job.MinDegreeSANF) {
			p.base[j] = job.MinDegreeSANF[k]
		} else {
			p.free = append(p.free, j)
		}
	}
	return run(ctx, c, p, opts)
}

// run enumerates the free entries of p.base in counter order, resuming from
// the job's checkpoint.
func run(ctx context.Context, c rsf.Caches, p plan, opts *Options) (int, error) {
	setup := time.Now()
	name := p.job.Name(p.prefix)
	log := opts.logger().With(slog.String("job", name))
	metrics := opts.metrics()
	profile := opts.profile()

	for _, dir := range []string{p.job.ResultDir, p.job.CheckpointDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, errors.Wrap(err, "create directory")
		}
	}
	ckPath := p.job.checkpointPath(p.prefix)
	ck, err := LoadCheckpoint(ckPath)
	if err != nil {
		return 0, errors.Wrapf(err, "load checkpoint %s", ckPath)
	}
	if ck != nil && ck.Done {
		log.Info("checkpoint says the job is complete, see the result log",
			slog.String("run_id", ck.RunID), slog.Int("found", ck.Found))
		return 0, nil
	}

	cur := transform.NewCursor(len(p.free))
	started := false
	if ck != nil && ck.Started {
		if err := cur.SetValue(ck.Cursor); err != nil {
			return 0, errors.Wrap(err, "checkpoint cursor")
		}
		started = true
		log.Info("resuming from checkpoint",
			slog.String("previous_run_id", ck.RunID), slog.String("cursor", ck.Cursor.String()))
	} else {
		log.Info("no checkpoint found, starting fresh")
	}

	runID := opts.runID()
	results, err := OpenResultLog(p.job.resultPath(p.prefix), runID)
	if err != nil {
		return 0, err
	}
	defer results.Close()

	f, err := rsf.New(c, p.job.Locality)
	if err != nil {
		return 0, err
	}

	found := 0
	save := func(done bool) error {
		defer profile.Track(time.Now(), "search.checkpoint")
		return SaveCheckpoint(ckPath, Checkpoint{
			RunID:     runID,
			Job:       name,
			Cursor:    append(Bits(nil), cur.Current()...),
			Started:   started,
			Done:      done,
			Found:     results.Len(),
			Timestamp: opts.clock(),
		})
	}
	if err := save(false); err != nil {
		return 0, err
	}
	lastSave := opts.clock()
	profile.Track(setup, "search.setup")

	enumerate := time.Now()
	sanf := append([]uint8(nil), p.base...)
	for !(started && cur.AllOnes()) {
		if err := ctx.Err(); err != nil {
			if serr := save(false); serr != nil {
				return found, errors.Join(err, serr)
			}
			log.Info("search interrupted", slog.Int("found", found))
			return found, err
		}
		v := cur.Next()
		started = true
		for k, idx := range p.free {
			sanf[idx] = v[k]
		}
		ok, err := check(f, sanf, p.job, metrics)
		if err != nil {
			return found, err
		}
		if ok {
			found++
			metrics.hit()
			written, err := record(f, results, sanf)
			if err != nil {
				return found, err
			}
			log.Debug("function found", slog.String("sanf", Bits(sanf).String()), slog.Bool("new", written))
		}
		if interval := p.job.CheckpointInterval; interval > 0 && opts.clock().Sub(lastSave) >= interval {
			if err := save(false); err != nil {
				return found, err
			}
			lastSave = opts.clock()
			metrics.setProgress(progress(v))
			log.Info("checkpoint", slog.String("cursor", Bits(v).String()), slog.Int("found", results.Len()))
		}
	}
	profile.Track(enumerate, "search.enumerate")

	if err := results.End(results.Len()); err != nil {
		return found, err
	}
	if err := save(true); err != nil {
		return found, err
	}
	metrics.setProgress(1)
	log.Info("search complete",
		slog.Int("found", found),
		slog.Int("logged", results.Len()),
		slog.Int("duplicates_skipped", results.Skipped()),
		slog.Duration("elapsed", time.Since(setup)))
	return found, nil
}

// check runs the resiliency then the algebraic immunity test on sanf.
func check(f *rsf.RSF, sanf []uint8, job Job, metrics *Metrics) (bool, error) {
	if err := f.SetSANF(sanf); err != nil {
		return false, err
	}
	metrics.candidate()
	ok, err := f.IsResilientOptimised(job.Resiliency)
	if err != nil || !ok {
		return false, err
	}
	metrics.resilientHit()
	return f.IsAlgebraicImmune(job.AlgebraicImmunity)
}

// record appends the current function of f to the result log and reports
// whether it was new.
func record(f *rsf.RSF, results *ResultLog, sanf []uint8) (bool, error) {
	anf, err := f.ANFString()
	if err != nil {
		return false, err
	}
	tt, err := f.TruthTable()
	if err != nil {
		return false, err
	}
	return results.Append(append(Bits(nil), sanf...), anf, tt)
}

// progress reads a counter value as a fraction of its range.
func progress(v []uint8) float64 {
	p, scale := 0.0, 0.5
	for _, b := range v {
		if scale == 0 {
			break
		}
		if b == 1 {
			p += scale
		}
		scale /= 2
	}
	return p
}
