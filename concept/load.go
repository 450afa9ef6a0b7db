// Package concept loads and validates concept configurations and converts the tabular concept
// format into the nested Concept/Dimension/Question tree.
package concept

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datar-psa/lazarsfeld/api"
)

// Format identifies the encoding of a configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported config extension %q", api.ErrInvalidConfig, filepath.Ext(path))
	}
}

// Load reads, parses and validates a concept configuration file.
// Any failure is fatal for a run; the returned error wraps api.ErrInvalidConfig.
func Load(path string) (*api.ConceptSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", api.ErrInvalidConfig, path, err)
	}
	set, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(set); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a concept configuration document. Unknown fields are rejected.
func Parse(data []byte, format Format) (*api.ConceptSet, error) {
	var set api.ConceptSet
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&set); err != nil {
			return nil, fmt.Errorf("%w: parse concepts: %v", api.ErrInvalidConfig, err)
		}
		if decoder.More() {
			return nil, fmt.Errorf("%w: parse concepts: trailing data after JSON document", api.ErrInvalidConfig)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&set); err != nil {
			return nil, fmt.Errorf("%w: parse concepts: %v", api.ErrInvalidConfig, err)
		}
		if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			if err == nil {
				return nil, fmt.Errorf("%w: parse concepts: multiple YAML documents are not supported", api.ErrInvalidConfig)
			}
			return nil, fmt.Errorf("%w: parse concepts: %v", api.ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", api.ErrInvalidConfig, format)
	}
	return &set, nil
}

// Write encodes set as an indented document in the format matching path.
func Write(path string, set *api.ConceptSet) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(set, "", "    ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(set)
	}
	if err != nil {
		return fmt.Errorf("encode concepts: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
