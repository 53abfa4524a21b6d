package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Decoder turns raw file bytes into tables.
type Decoder interface {
	CanDecode(filename string) bool
	Decode(filename string, data []byte) ([]*Table, error)
}

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

func init() {
	Register(xlsxDecoder{})
	Register(csvDecoder{})
}

// Load parses every sheet of the file. No schema validation happens here;
// consumers check for the columns they need. Any failure is a *LoadError and
// no partial workbook is returned.
func Load(name string, data []byte) (*Workbook, error) {
	base := filepath.Base(name)
	if len(data) == 0 {
		return nil, &LoadError{File: base, Err: fmt.Errorf("empty file")}
	}
	for _, d := range registry {
		if !d.CanDecode(name) {
			continue
		}
		tables, err := d.Decode(name, data)
		if err != nil {
			return nil, &LoadError{File: base, Err: err}
		}
		if len(tables) == 0 {
			return nil, &LoadError{File: base, Err: ErrNoSheets}
		}
		return New(base, tables...), nil
	}
	return nil, &LoadError{File: base, Err: fmt.Errorf("%w: %s", ErrUnsupported, strings.ToLower(filepath.Ext(name)))}
}

// LoadFile reads a file from disk and loads it.
func LoadFile(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: filepath.Base(path), Err: fmt.Errorf("read file: %w", err)}
	}
	return Load(path, data)
}

func hasExt(filename string, exts ...string) bool {
	lower := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

// headerName fills blank header cells so every column stays addressable.
func headerName(raw string, idx int) string {
	h := strings.TrimSpace(raw)
	if h == "" {
		return fmt.Sprintf("column_%d", idx+1)
	}
	return h
}
