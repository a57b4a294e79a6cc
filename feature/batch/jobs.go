package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"doc-composer/core/validation"

	"gopkg.in/yaml.v3"
)

// Job is one document to compose.
type Job struct {
	// Name labels the job in logs and reports; defaults to the manifest stem.
	Name     string `yaml:"name" json:"name"`
	Manifest string `yaml:"manifest" json:"manifest" validate:"required"`
	Output   string `yaml:"output" json:"output" validate:"required"`
	// Master overrides the file-level master template.
	Master string `yaml:"master,omitempty" json:"master,omitempty"`
}

// File is a batch job file.
type File struct {
	Master      string `yaml:"master" json:"master"`
	Workers     int    `yaml:"workers" json:"workers" validate:"gte=0"`
	AcceptFuzzy bool   `yaml:"accept_fuzzy" json:"accept_fuzzy"`
	Jobs        []Job  `yaml:"jobs" json:"jobs" validate:"required,min=1,dive"`
}

// Load reads a job file. Relative paths are resolved against the file's directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.resolvePaths(filepath.Dir(path))
	return f, nil
}

// Parse decodes and validates a job file. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("job file is empty")
		}
		return nil, fmt.Errorf("invalid job file: %w", err)
	}

	if err := validation.New("yaml").Validate(f); err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(f.Jobs))
	// Two jobs writing one file would race and the loser's output vanish.
	outputs := make(map[string]string, len(f.Jobs))
	for i := range f.Jobs {
		job := &f.Jobs[i]
		if job.Name == "" {
			base := filepath.Base(job.Manifest)
			job.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if names[job.Name] {
			return nil, fmt.Errorf("duplicate job name %q", job.Name)
		}
		names[job.Name] = true

		out := filepath.Clean(job.Output)
		if prev, ok := outputs[out]; ok {
			return nil, fmt.Errorf("duplicate output %q in jobs %q and %q", job.Output, prev, job.Name)
		}
		outputs[out] = job.Name
	}
	return &f, nil
}

func (f *File) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
			return p
		}
		return filepath.Join(dir, p)
	}
	f.Master = abs(f.Master)
	for i := range f.Jobs {
		f.Jobs[i].Manifest = abs(f.Jobs[i].Manifest)
		f.Jobs[i].Output = abs(f.Jobs[i].Output)
		f.Jobs[i].Master = abs(f.Jobs[i].Master)
	}
}
