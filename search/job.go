package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dahu/internal/errors"
	"dahu/transform"
)

// DefaultCheckpointInterval is the period between two checkpoints of a long
// enumeration.
const DefaultCheckpointInterval = 30 * time.Minute

// Job describes one search: the target parameters, the fixed parts of the
// SANF and where results and checkpoints go.
type Job struct {
	Locality           int           `yaml:"locality" json:"locality"`
	Resiliency         int           `yaml:"resiliency" json:"resiliency"`
	AlgebraicImmunity  int           `yaml:"algebraic_immunity" json:"algebraic_immunity"`
	MaxDegreeSANF      Bits          `yaml:"max_degree_sanf" json:"max_degree_sanf"`
	MinDegreeSANF      Bits          `yaml:"min_degree_sanf" json:"min_degree_sanf"`
	ResultDir          string        `yaml:"result_dir" json:"result_dir"`
	CheckpointDir      string        `yaml:"checkpoint_dir" json:"checkpoint_dir"`
	CheckpointInterval time.Duration `yaml:"checkpoint_interval" json:"checkpoint_interval"`
}

// DefaultJob returns a job with the directories, the checkpoint period and
// the constant-free minimal SANF filled in.
func DefaultJob() Job {
	return Job{
		MinDegreeSANF:      Bits{0},
		ResultDir:          "result",
		CheckpointDir:      "backup",
		CheckpointInterval: DefaultCheckpointInterval,
	}
}

// LoadJob reads a YAML (or JSON) job file on top of DefaultJob and validates
// the result.
func LoadJob(path string) (Job, error) {
	job := DefaultJob()
	data, err := os.ReadFile(path)
	if err != nil {
		return job, errors.Wrap(err, "read job")
	}
	if err := yaml.Unmarshal(data, &job); err != nil {
		if jsonErr := json.Unmarshal(data, &job); jsonErr != nil {
			return job, errors.Wrapf(jsonErr, "parse job (tried YAML and JSON): YAML error: %v", err)
		}
	}
	if err := job.Validate(); err != nil {
		return job, err
	}
	return job, nil
}

// Validate checks the parameter ranges.
func (j *Job) Validate() error {
	if err := transform.CheckLocality(j.Locality); err != nil {
		return err
	}
	if j.Resiliency < -1 || j.Resiliency >= j.Locality {
		return errors.InvalidArgument("resiliency", "got %d, want -1..%d", j.Resiliency, j.Locality-1)
	}
	if j.AlgebraicImmunity < 0 || j.AlgebraicImmunity > (j.Locality+1)/2 {
		return errors.InvalidArgument("algebraic immunity", "got %d, want 0..%d", j.AlgebraicImmunity, (j.Locality+1)/2)
	}
	if j.CheckpointInterval < 0 {
		return errors.InvalidArgument("checkpoint interval", "got %s, want >= 0", j.CheckpointInterval)
	}
	if j.ResultDir == "" || j.CheckpointDir == "" {
		return errors.InvalidArgument("directories", "result and checkpoint directories are required")
	}
	return nil
}

// Name returns the file stem shared by the result log and the checkpoint,
// e.g. "rsf-9-3-5-0001-0".
func (j *Job) Name(prefix string) string {
	return fmt.Sprintf("%s-%d-%d-%d-%s-%s", prefix, j.Locality, j.Resiliency, j.AlgebraicImmunity,
		j.MaxDegreeSANF, j.MinDegreeSANF)
}

func (j *Job) resultPath(prefix string) string {
	return filepath.Join(j.ResultDir, j.Name(prefix)+".jsonl")
}

func (j *Job) checkpointPath(prefix string) string {
	return filepath.Join(j.CheckpointDir, j.Name(prefix)+".json")
}

// Bits is a Boolean vector that reads and prints as a 0/1 string, e.g.
// "0110". In YAML it may also be written as a sequence of integers.
type Bits []uint8

// ParseBits parses a 0/1 string.
func ParseBits(s string) (Bits, error) {
	out := make(Bits, 0, len(s))
	for i, c := range strings.TrimSpace(s) {
		switch c {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		default:
			return nil, errors.InvalidArgument("bit string", "character %d is %q, want 0 or 1", i, c)
		}
	}
	return out, nil
}

func (b Bits) String() string {
	var sb strings.Builder
	for _, v := range b {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (b Bits) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bits) UnmarshalText(text []byte) error {
	v, err := ParseBits(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// UnmarshalYAML accepts both "0110" and [0, 1, 1, 0].
func (b *Bits) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var ints []int
		if err := node.Decode(&ints); err != nil {
			return err
		}
		out := make(Bits, len(ints))
		for i, v := range ints {
			if v != 0 && v != 1 {
				return errors.InvalidArgument("bit string", "entry %d is %d, want 0 or 1", i, v)
			}
			out[i] = uint8(v)
		}
		*b = out
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return b.UnmarshalText([]byte(s))
}
