package search

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/cespare/xxhash/v2"

	"dahu/internal/errors"
)

// Record is one line of a result log. A hit carries SANF, ANF and the digest
// of its truth table; the final line is the sentinel {"end":true,"found":N}.
type Record struct {
	RunID  string `json:"run_id,omitempty"`
	SANF   Bits   `json:"sanf,omitempty"`
	ANF    string `json:"anf,omitempty"`
	Digest string `json:"digest,omitempty"`
	End    bool   `json:"end,omitempty"`
	Found  int    `json:"found,omitempty"`
}

// ResultLog is an append-only JSON lines file of search hits. Records already
// present when the log is opened are not written again, so a search resumed
// from a checkpoint does not duplicate the hits found after it.
type ResultLog struct {
	f       *os.File
	w       *bufio.Writer
	enc     *json.Encoder
	runID   string
	seen    map[uint64]struct{}
	skipped int
}

// OpenResultLog opens (or creates) the log at path for appending.
func OpenResultLog(path, runID string) (*ResultLog, error) {
	records, _, err := ReadResults(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	seen := make(map[uint64]struct{}, len(records))
	for _, r := range records {
		seen[xxhash.Sum64String(r.SANF.String())] = struct{}{}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open result log")
	}
	w := bufio.NewWriter(f)
	return &ResultLog{f: f, w: w, enc: json.NewEncoder(w), runID: runID, seen: seen}, nil
}

// Append writes one hit and flushes it. It reports false when the SANF was
// already in the log.
func (l *ResultLog) Append(sanf Bits, anf string, tt []uint8) (bool, error) {
	key := xxhash.Sum64String(sanf.String())
	if _, ok := l.seen[key]; ok {
		l.skipped++
		return false, nil
	}
	l.seen[key] = struct{}{}
	rec := Record{RunID: l.runID, SANF: sanf, ANF: anf, Digest: Digest(tt)}
	if err := l.enc.Encode(rec); err != nil {
		return false, errors.Wrap(err, "encode result")
	}
	if err := l.w.Flush(); err != nil {
		return false, errors.Wrap(err, "flush result log")
	}
	return true, nil
}

// Len returns the number of distinct hits in the log, including those
// present when it was opened.
func (l *ResultLog) Len() int { return len(l.seen) }

// Skipped returns the number of duplicate hits not written.
func (l *ResultLog) Skipped() int { return l.skipped }

// End writes the sentinel closing the log.
func (l *ResultLog) End(found int) error {
	if err := l.enc.Encode(Record{End: true, Found: found}); err != nil {
		return errors.Wrap(err, "encode end")
	}
	return errors.Wrap(l.w.Flush(), "flush result log")
}

// Close flushes and closes the file.
func (l *ResultLog) Close() error {
	if err := l.w.Flush(); err != nil {
		_ = l.f.Close()
		return errors.Wrap(err, "flush result log")
	}
	return errors.Wrap(l.f.Close(), "close result log")
}

// ReadResults returns the hits of the log at path and whether a sentinel was
// found.
func ReadResults(path string) (records []Record, ended bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, false, errors.Wrapf(err, "result log line %d", line)
		}
		if r.End {
			ended = true
			continue
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, false, errors.Wrap(err, "scan result log")
	}
	return records, ended, nil
}
