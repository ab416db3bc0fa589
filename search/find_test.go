package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dahu/internal/errors"
	"dahu/measureutil"
	"dahu/prof"
	"dahu/rsf"
)

// The 5-variable SANFs without constant and degree 4, 5 terms that are
// 1-resilient with algebraic immunity 3.
var wantL5 = []string{"00110100", "00111000", "01010100", "01101000"}

func testOptions(t *testing.T) *Options {
	t.Helper()
	c, err := rsf.NewCaches()
	require.NoError(t, err)
	return &Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Caches: &c,
		RunID:  "test-run",
	}
}

func testJob(t *testing.T) Job {
	t.Helper()
	dir := t.TempDir()
	job := DefaultJob()
	job.Locality, job.Resiliency, job.AlgebraicImmunity = 5, 1, 3
	job.ResultDir = filepath.Join(dir, "result")
	job.CheckpointDir = filepath.Join(dir, "backup")
	return job
}

func sanfs(t *testing.T, path string) []string {
	t.Helper()
	records, ended, err := ReadResults(path)
	require.NoError(t, err)
	require.True(t, ended, "result log has no end sentinel")
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SANF.String()
	}
	sort.Strings(out)
	return out
}

// endFound returns the count of the last end sentinel of the log at path.
func endFound(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	found := -1
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		if r.End {
			found = r.Found
		}
	}
	require.NotEqual(t, -1, found, "result log has no end sentinel")
	return found
}

func TestFindRSF(t *testing.T) {
	job := testJob(t)
	opts := testOptions(t)
	opts.Metrics = NewMetrics()

	found, err := FindRSF(context.Background(), job, opts)
	require.NoError(t, err)
	require.Equal(t, len(wantL5), found)

	named := job
	named.MaxDegreeSANF = Bits{}
	require.Equal(t, "rsf-5-1-3--0", named.Name("rsf"))
	require.Equal(t, wantL5, sanfs(t, named.resultPath("rsf")))

	records, _, err := ReadResults(named.resultPath("rsf"))
	require.NoError(t, err)
	for _, r := range records {
		require.Equal(t, "test-run", r.RunID)
		require.NotEmpty(t, r.ANF)
		require.Len(t, r.Digest, 32)
	}

	ck, err := LoadCheckpoint(named.checkpointPath("rsf"))
	require.NoError(t, err)
	require.True(t, ck.Done)
	require.Equal(t, len(wantL5), ck.Found)
	require.Equal(t, Bits{1, 1, 1, 1, 1}, ck.Cursor)

	snap, err := measureutil.Snapshot(opts.Metrics.Registry())
	require.NoError(t, err)
	require.Equal(t, 32.0, snap["dahu_candidates_total"])
	require.Equal(t, float64(len(wantL5)), snap["dahu_found_total"])
	require.Equal(t, 1.0, snap["dahu_progress_ratio"])
	require.GreaterOrEqual(t, snap["dahu_resilient_total"], snap["dahu_found_total"])

	// A finished job is not run again.
	found, err = FindRSF(context.Background(), job, opts)
	require.NoError(t, err)
	require.Zero(t, found)
}

func TestFindRSFFixedMaxDegree(t *testing.T) {
	job := testJob(t)
	job.MaxDegreeSANF = Bits{1, 0}
	found, err := FindRSF(context.Background(), job, testOptions(t))
	require.NoError(t, err)
	require.Equal(t, 2, found)
	require.Equal(t, []string{"00111000", "01101000"}, sanfs(t, job.resultPath("rsf")))
}

func TestFindRSFWithCoverage(t *testing.T) {
	job := testJob(t)
	job.MaxDegreeSANF = Bits{1, 0}
	found, err := FindRSFWithCoverage(context.Background(), job, testOptions(t))
	require.NoError(t, err)
	require.Equal(t, 2, found)
	require.Equal(t, []string{"00111000", "01101000"}, sanfs(t, job.resultPath("rsf-c")))

	job = testJob(t)
	_, err = FindRSFWithCoverage(context.Background(), job, testOptions(t))
	require.True(t, errors.IsInvalidArgument(err), "got %v", err)
}

func TestFindRSFTooManyFixed(t *testing.T) {
	job := testJob(t)
	job.MinDegreeSANF = Bits{0, 0, 0, 0, 0, 0, 0}
	_, err := FindRSF(context.Background(), job, testOptions(t))
	require.True(t, errors.IsInvalidArgument(err), "got %v", err)
}

func TestFindRSFResume(t *testing.T) {
	job := testJob(t)
	opts := testOptions(t)
	found, err := FindRSF(context.Background(), job, opts)
	require.NoError(t, err)
	require.Equal(t, len(wantL5), found)

	// Rewind to just after the second hit: free bits 01110.
	named := job
	named.MaxDegreeSANF = Bits{}
	require.NoError(t, SaveCheckpoint(named.checkpointPath("rsf"), Checkpoint{
		RunID:   "earlier",
		Job:     named.Name("rsf"),
		Cursor:  Bits{0, 1, 1, 1, 0},
		Started: true,
		Found:   2,
	}))
	found, err = FindRSF(context.Background(), job, opts)
	require.NoError(t, err)
	require.Equal(t, 2, found)
	// The replayed hits were already logged.
	require.Equal(t, wantL5, sanfs(t, named.resultPath("rsf")))
	ck, err := LoadCheckpoint(named.checkpointPath("rsf"))
	require.NoError(t, err)
	require.True(t, ck.Done)
	require.Equal(t, len(wantL5), ck.Found)
	require.Equal(t, len(wantL5), endFound(t, named.resultPath("rsf")))
}

func TestFindRSFResumeCountsLoggedHits(t *testing.T) {
	job := testJob(t)
	opts := testOptions(t)
	opts.Metrics = NewMetrics()
	named := job
	named.MaxDegreeSANF = Bits{}
	require.NoError(t, os.MkdirAll(job.ResultDir, 0o755))
	require.NoError(t, os.MkdirAll(job.CheckpointDir, 0o755))

	// A run interrupted after its first two hits: free bits 01101 and 01110.
	results, err := OpenResultLog(named.resultPath("rsf"), "earlier")
	require.NoError(t, err)
	for _, s := range wantL5[:2] {
		sanf, err := ParseBits(s)
		require.NoError(t, err)
		written, err := results.Append(sanf, "", make([]uint8, 32))
		require.NoError(t, err)
		require.True(t, written)
	}
	require.NoError(t, results.Close())
	require.NoError(t, SaveCheckpoint(named.checkpointPath("rsf"), Checkpoint{
		RunID:   "earlier",
		Job:     named.Name("rsf"),
		Cursor:  Bits{0, 1, 1, 1, 0},
		Started: true,
		Found:   2,
	}))

	found, err := FindRSF(context.Background(), job, opts)
	require.NoError(t, err)
	require.Equal(t, 2, found)

	records, ended, err := ReadResults(named.resultPath("rsf"))
	require.NoError(t, err)
	require.True(t, ended)
	require.Len(t, records, len(wantL5))
	ck, err := LoadCheckpoint(named.checkpointPath("rsf"))
	require.NoError(t, err)
	require.True(t, ck.Done)
	require.Equal(t, len(records), ck.Found)
	require.Equal(t, len(records), endFound(t, named.resultPath("rsf")))

	snap, err := measureutil.Snapshot(opts.Metrics.Registry())
	require.NoError(t, err)
	require.Equal(t, 2.0, snap["dahu_found_total"])
}

func TestFindRSFCancelled(t *testing.T) {
	job := testJob(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindRSF(ctx, job, testOptions(t))
	require.ErrorIs(t, err, context.Canceled)

	named := job
	named.MaxDegreeSANF = Bits{}
	ck, err := LoadCheckpoint(named.checkpointPath("rsf"))
	require.NoError(t, err)
	require.NotNil(t, ck)
	require.False(t, ck.Started)
	require.False(t, ck.Done)

	found, err := FindRSF(context.Background(), job, testOptions(t))
	require.NoError(t, err)
	require.Equal(t, len(wantL5), found)
}

func TestFindRSFCorruptCheckpoint(t *testing.T) {
	job := testJob(t)
	named := job
	named.MaxDegreeSANF = Bits{}
	require.NoError(t, os.MkdirAll(job.CheckpointDir, 0o755))
	require.NoError(t, os.WriteFile(named.checkpointPath("rsf"), []byte("garbage"), 0o644))
	_, err := FindRSF(context.Background(), job, testOptions(t))
	require.True(t, errors.Is(err, ErrCheckpointCorrupt), "got %v", err)
}

func TestFindRSFPeriodicCheckpoint(t *testing.T) {
	job := testJob(t)
	job.CheckpointInterval = time.Minute
	opts := testOptions(t)
	now := time.Unix(0, 0)
	opts.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	opts.Metrics = NewMetrics()
	found, err := FindRSF(context.Background(), job, opts)
	require.NoError(t, err)
	require.Equal(t, len(wantL5), found)

	named := job
	named.MaxDegreeSANF = Bits{}
	ck, err := LoadCheckpoint(named.checkpointPath("rsf"))
	require.NoError(t, err)
	require.True(t, ck.Done)
	require.True(t, ck.Timestamp.After(time.Unix(0, 0)))
}

func TestFindRSFDefaultProfile(t *testing.T) {
	prof.SnapshotAndReset()
	job := testJob(t)
	opts := testOptions(t)
	_, err := FindRSF(context.Background(), job, opts)
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, s := range prof.Summarize(prof.SnapshotAndReset()) {
		labels[s.Label] = true
	}
	for _, want := range []string{"search.setup", "search.enumerate", "search.checkpoint"} {
		require.True(t, labels[want], "missing %s in %v", want, labels)
	}
}

func TestProgress(t *testing.T) {
	require.Equal(t, 0.0, progress([]uint8{0, 0, 0}))
	require.Equal(t, 0.5, progress([]uint8{1, 0, 0}))
	require.Equal(t, 0.875, progress([]uint8{1, 1, 1}))
	require.Equal(t, 0.0, progress(nil))
}
