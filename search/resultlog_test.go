package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.jsonl")
	tt := []uint8{0, 1, 1, 0}

	log, err := OpenResultLog(path, "first")
	require.NoError(t, err)
	ok, err := log.Append(Bits{0, 1}, "(X0)", tt)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = log.Append(Bits{0, 1}, "(X0)", tt)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, log.Skipped())
	require.Equal(t, 1, log.Len())
	require.NoError(t, log.End(1))
	require.NoError(t, log.Close())

	// Reopening keeps the previous hits out.
	log, err = OpenResultLog(path, "second")
	require.NoError(t, err)
	require.Equal(t, 1, log.Len())
	ok, err = log.Append(Bits{0, 1}, "(X0)", tt)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = log.Append(Bits{1, 1}, "(1) + (X0)", []uint8{1, 0, 0, 1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, log.Len())
	require.NoError(t, log.Close())

	records, ended, err := ReadResults(path)
	require.NoError(t, err)
	require.True(t, ended)
	require.Len(t, records, 2)
	require.Equal(t, "first", records[0].RunID)
	require.Equal(t, Bits{0, 1}, records[0].SANF)
	require.Equal(t, Digest(tt), records[0].Digest)
	require.Equal(t, "second", records[1].RunID)
	require.Equal(t, "(1) + (X0)", records[1].ANF)
}

func TestReadResultsErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := ReadResults(filepath.Join(dir, "none.jsonl"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"sanf\":\"01\"}\n\nnot json\n"), 0o644))
	_, _, err = ReadResults(path)
	require.ErrorContains(t, err, "line 3")

	path = filepath.Join(dir, "open.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"sanf\":\"01\"}\n"), 0o644))
	records, ended, err := ReadResults(path)
	require.NoError(t, err)
	require.False(t, ended)
	require.Len(t, records, 1)
}

func TestDigest(t *testing.T) {
	a := Digest([]uint8{0, 1, 1, 0})
	require.Len(t, a, 32)
	require.Equal(t, a, Digest([]uint8{0, 1, 1, 0}))
	require.NotEqual(t, a, Digest([]uint8{0, 1, 1, 1}))
}
