package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownField is wrapped into loader errors caused by a key that does
// not correspond to any parameter. It is only possible to modify existing
// attributes; new ones cannot be introduced from a file.
var ErrUnknownField = errors.New("only possible to modify existing attributes")

// LoadFile reads a parameter file (YAML or JSON), applies it on top of the
// defaults, and validates the result. Format is detected by extension
// (.yaml/.yml/.json) or, failing that, by content.
func LoadFile(path string) (Param, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Param{}, fmt.Errorf("read params: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses parameters from bytes on top of the defaults. ext is the
// file extension as a format hint; empty means detect from content.
// Unknown keys are rejected.
func Load(data []byte, ext string) (Param, error) {
	p := Defaults()

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	switch ext {
	case ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return Param{}, decodeErr("yaml", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Param{}, decodeErr("json", err)
		}
	default:
		return Param{}, fmt.Errorf("unsupported parameter file extension %q", ext)
	}

	if err := p.Validate(); err != nil {
		return Param{}, err
	}
	return p, nil
}

// decodeErr classifies a decode failure: unknown-key errors get the
// attribute-modification sentinel, everything else is a plain parse error.
func decodeErr(format string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "not found in type") || // yaml.v3 KnownFields
		strings.Contains(msg, "unknown field") { // encoding/json
		return fmt.Errorf("parse params %s: %w: %v", format, ErrUnknownField, err)
	}
	return fmt.Errorf("parse params %s: %w", format, err)
}
