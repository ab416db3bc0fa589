package search

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"dahu/internal/errors"
)

// CheckpointVersion is the current checkpoint format version.
const CheckpointVersion = "1.0.0"

var (
	// ErrCheckpointCorrupt is returned when a checkpoint's checksum does not
	// match its content.
	ErrCheckpointCorrupt = errors.New("checkpoint corrupt")
	// ErrCheckpointVersion is returned for a checkpoint of another format.
	ErrCheckpointVersion = errors.New("checkpoint version mismatch")
)

// Checkpoint records how far an enumeration went. Cursor is the last
// enumerated value of the free SANF bits; it is meaningless until Started.
type Checkpoint struct {
	Version   string    `json:"version"`
	RunID     string    `json:"run_id"`
	Job       string    `json:"job"`
	Cursor    Bits      `json:"cursor"`
	Started   bool      `json:"started"`
	Done      bool      `json:"done"`
	Found     int       `json:"found"`
	Timestamp time.Time `json:"timestamp"`
	Checksum  string    `json:"checksum"`
}

// checksum hashes the canonical JSON of c without its checksum field.
func (c Checkpoint) checksum() (string, error) {
	c.Checksum = ""
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "marshal for checksum")
	}
	sum := shake16([]byte{checkpointPrefix}, data)
	return hex.EncodeToString(sum[:]), nil
}

// SaveCheckpoint writes c to path atomically: temp file, sync, rename.
func SaveCheckpoint(path string, c Checkpoint) error {
	c.Version = CheckpointVersion
	c.Timestamp = c.Timestamp.UTC()
	sum, err := c.checksum()
	if err != nil {
		return err
	}
	c.Checksum = sum
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal checkpoint")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write checkpoint")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "sync checkpoint")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close checkpoint")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "rename checkpoint")
	}
	success = true
	return nil
}

// LoadCheckpoint reads and verifies the checkpoint at path. A missing file
// is reported as (nil, nil): the search starts fresh.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read checkpoint")
	}
	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(ErrCheckpointCorrupt, "unmarshal: %v", err)
	}
	if c.Version != CheckpointVersion {
		return nil, errors.Wrapf(ErrCheckpointVersion, "got %s, want %s", c.Version, CheckpointVersion)
	}
	want, err := c.checksum()
	if err != nil {
		return nil, err
	}
	if c.Checksum != want {
		return nil, errors.WithStack(ErrCheckpointCorrupt)
	}
	return &c, nil
}
