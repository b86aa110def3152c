package course

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the content format major version this build reads.
const SupportedMajor = "v1"

// Format selects the course file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// ValidationError reports a course document that is malformed.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid course: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FormatFor picks the decoder from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates the course file at path.
func Load(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course: %w", err)
	}
	c, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a course document.
func Parse(data []byte, format Format) (*Course, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ValidationError{Err: fmt.Errorf("yaml: %w", err)}
		}
		// Re-encode so YAML and JSON content share one decoding path.
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, &ValidationError{Err: fmt.Errorf("yaml to json: %w", err)}
		}
		data = b
		doc = nil
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ValidationError{Err: err}
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ValidationError{Err: fmt.Errorf("json: %w", err)}
		}
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if err := checkVersion(c.Config.Version); err != nil {
		return nil, err
	}
	if err := checkQuizzes(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// checkVersion accepts an empty version or any semver with the supported major.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return &ValidationError{Err: fmt.Errorf("version %q is not a semantic version", v)}
	}
	if semver.Major(v) != SupportedMajor {
		return &ValidationError{Err: fmt.Errorf("version %s is not supported (want %s.x)", v, SupportedMajor)}
	}
	return nil
}

func checkQuizzes(c *Course) error {
	for _, sec := range c.Sections {
		for _, sub := range sec.Subsections {
			for i, conv := range sub.Conversations {
				for _, m := range conv.Sidebar {
					q, ok := m.(*Quiz)
					if !ok {
						continue
					}
					if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
						return &ValidationError{Err: fmt.Errorf(
							"section %s subsection %s turn %d: quiz answer %d out of range (%d options)",
							sec.ID, sub.ID, i, q.CorrectAnswer, len(q.Options))}
					}
				}
			}
		}
	}
	if c.Practice != nil {
		for _, q := range c.Practice.MultipleChoice {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return &ValidationError{Err: fmt.Errorf("practice question %q: answer %d out of range", q.ID, q.CorrectAnswer)}
			}
		}
	}
	return nil
}
