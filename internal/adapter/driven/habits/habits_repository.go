package habits

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/domain/repository"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// HabitsRepositoryImpl reads the consumption profile from a JSON object file.
type HabitsRepositoryImpl struct {
	path string
}

// NewHabitsRepository creates a habits repository for dataDir/fileName.
func NewHabitsRepository(dataDir, fileName string) repository.HabitsRepository {
	return &HabitsRepositoryImpl{path: filepath.Join(dataDir, fileName)}
}

// Path returns the profile file location.
func (r *HabitsRepositoryImpl) Path() string {
	return r.path
}

// Exists reports whether the profile file is present.
func (r *HabitsRepositoryImpl) Exists() (bool, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error accessing habits file: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory, not a file", r.path)
	}
	return true, nil
}

// Load decodes the profile keeping the key order of the file.
func (r *HabitsRepositoryImpl) Load() (*entity.HabitProfile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w (expected at %s)", types.ErrHabitsNotFound, r.path)
		}
		return nil, fmt.Errorf("error reading habits file: %w", err)
	}

	profile, err := decodeProfile(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing habits file %s: %w", r.path, err)
	}
	return profile, nil
}

// CreateTemplate writes every category with a zero quantity, unless the file exists.
func (r *HabitsRepositoryImpl) CreateTemplate(categories []string) (bool, error) {
	exists, err := r.Exists()
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return false, fmt.Errorf("error creating data directory: %w", err)
	}

	data, err := encodeProfile(entity.NewTemplateProfile(categories))
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return false, fmt.Errorf("error writing habits file: %w", err)
	}
	return true, nil
}

func decodeProfile(data []byte) (*entity.HabitProfile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object of category to quantity")
	}

	profile := &entity.HabitProfile{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		category, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", category, err)
		}
		profile.Set(category, string(bytes.TrimSpace(raw)))
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return profile, nil
}

// encodeProfile writes the profile with 4-space indentation and unescaped UTF-8, in entry order.
func encodeProfile(profile *entity.HabitProfile) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range profile.Entries {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := marshalNoEscape(e.Category)
		if err != nil {
			return nil, fmt.Errorf("error encoding category %q: %w", e.Category, err)
		}
		buf.WriteString("\n    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.WriteString(e.Raw)
	}
	if len(profile.Entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
