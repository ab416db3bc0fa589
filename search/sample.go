package search

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"

	"dahu/internal/errors"
	"dahu/rsf"
)

// Sample tests samples random RSFs of degree at most ⌊(l+1)/2⌋, drawn from a
// PRNG keyed with seed, and appends the hits to <ResultDir>/rsf-s-….jsonl.
// job.MinDegreeSANF fixes the leading SANF entries and job.MaxDegreeSANF,
// when it has the right length, the maximal degree ones. Sampling keeps no
// checkpoint: the same seed replays the same candidates.
func Sample(ctx context.Context, job Job, samples int, seed []byte, opts *Options) (int, error) {
	if err := job.Validate(); err != nil {
		return 0, err
	}
	if samples < 0 {
		return 0, errors.InvalidArgument("samples", "got %d, want >= 0", samples)
	}
	c, err := opts.caches()
	if err != nil {
		return 0, err
	}
	t, err := c.Symmetry.Get(job.Locality)
	if err != nil {
		return 0, err
	}
	_, nLow, nMax := bands(t)
	fixedMax := len(job.MaxDegreeSANF) == nMax
	if !fixedMax {
		nLow += nMax
	}
	if len(job.MinDegreeSANF) > nLow {
		return 0, errors.InvalidArgument("min degree SANF", "length %d, at most %d representatives are free", len(job.MinDegreeSANF), nLow)
	}
	base := make([]uint8, t.N())
	copy(base, job.MinDegreeSANF)
	if fixedMax {
		copy(base[nLow:], job.MaxDegreeSANF)
	} else {
		job.MaxDegreeSANF = Bits{}
	}
	free := nLow - len(job.MinDegreeSANF)

	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return 0, errors.Wrap(err, "keyed prng")
	}
	if err := os.MkdirAll(job.ResultDir, 0755); err != nil {
		return 0, errors.Wrap(err, "create directory")
	}
	name := job.Name("rsf-s")
	log := opts.logger().With(slog.String("job", name))
	results, err := OpenResultLog(job.resultPath("rsf-s"), opts.runID())
	if err != nil {
		return 0, err
	}
	defer results.Close()
	f, err := rsf.New(c, job.Locality)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	metrics := opts.metrics()
	buf := make([]byte, (free+7)/8)
	sanf := append([]uint8(nil), base...)
	found := 0
	for s := 0; s < samples; s++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		if _, err := prng.Read(buf); err != nil {
			return found, errors.Wrap(err, "read prng")
		}
		for k := 0; k < free; k++ {
			sanf[len(job.MinDegreeSANF)+k] = buf[k/8] >> (7 - k%8) & 1
		}
		ok, err := check(f, sanf, job, metrics)
		if err != nil {
			return found, err
		}
		if ok {
			found++
			metrics.hit()
			if _, err := record(f, results, sanf); err != nil {
				return found, err
			}
		}
		metrics.setProgress(float64(s+1) / float64(samples))
	}
	opts.profile().Track(start, "search.sample")
	if err := results.End(results.Len()); err != nil {
		return found, err
	}
	log.Info("sampling complete", slog.Int("samples", samples), slog.Int("found", found),
		slog.Duration("elapsed", time.Since(start)))
	return found, nil
}
