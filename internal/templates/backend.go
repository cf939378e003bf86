package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// Backend persists the whole template mapping.
type Backend interface {
	Load() (map[string]entity.Template, error)
	Save(map[string]entity.Template) error
}

// FileBackend stores templates in a single human-editable file. Files ending
// in .json are read and written as JSON, everything else as YAML.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) isJSON() bool {
	return strings.EqualFold(filepath.Ext(b.Path), ".json")
}

// Load reads and validates the file. A missing file is an empty store.
func (b *FileBackend) Load() (map[string]entity.Template, error) {
	raw, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]entity.Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]entity.Template{}, nil
	}

	var doc any
	if b.isJSON() {
		err = json.Unmarshal(raw, &doc)
	} else {
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode templates %s: %w", b.Path, err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	out := map[string]entity.Template{}
	if b.isJSON() {
		err = json.Unmarshal(raw, &out)
	} else {
		err = yaml.Unmarshal(raw, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("decode templates %s: %w", b.Path, err)
	}
	return out, nil
}

// Save writes the mapping atomically: a temp file in the same directory is
// renamed over the target, so a crash never leaves a half-written file.
func (b *FileBackend) Save(all map[string]entity.Template) error {
	var buf bytes.Buffer
	if b.isJSON() {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "    ")
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("encode templates: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("encode templates: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode templates: %w", err)
		}
	}

	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".templates-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write templates: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write templates: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.Path); err != nil {
		return fmt.Errorf("replace templates: %w", err)
	}
	return nil
}

// MemoryBackend keeps templates in process; used by tests and scripted runs.
type MemoryBackend struct {
	mu    sync.Mutex
	data  map[string]entity.Template
	Saves int
	Err   error
}

func NewMemoryBackend(seed map[string]entity.Template) *MemoryBackend {
	m := &MemoryBackend{data: map[string]entity.Template{}}
	for k, v := range seed {
		m.data[k] = v.Clone()
	}
	return m
}

func (m *MemoryBackend) Load() (map[string]entity.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]entity.Template, len(m.data))
	for k, v := range m.data {
		out[k] = v.Clone()
	}
	return out, nil
}

func (m *MemoryBackend) Save(all map[string]entity.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data = make(map[string]entity.Template, len(all))
	for k, v := range all {
		m.data[k] = v.Clone()
	}
	m.Saves++
	return nil
}
