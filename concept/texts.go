package concept

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

// LoadTexts reads a mapping of text label to text body. JSON and YAML are both accepted; the
// declared order of the labels is kept.
func LoadTexts(path string) ([]scoring.LabeledText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texts %s: %w", path, err)
	}
	texts, err := ParseTexts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return texts, nil
}

// ParseTexts decodes a label → text mapping. JSON input is parsed as YAML flow style.
func ParseTexts(data []byte) ([]scoring.LabeledText, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse texts: %v", api.ErrInvalidConfig, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: texts must be a mapping of label to text", api.ErrInvalidConfig)
	}

	mapping := doc.Content[0]
	texts := make([]scoring.LabeledText, 0, len(mapping.Content)/2)
	seen := make(map[string]bool, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: text %q must be a string (line %d)", api.ErrInvalidConfig, key.Value, value.Line)
		}
		if seen[key.Value] {
			return nil, fmt.Errorf("%w: duplicate text label %q (line %d)", api.ErrInvalidConfig, key.Value, key.Line)
		}
		seen[key.Value] = true
		texts = append(texts, scoring.LabeledText{Label: key.Value, Text: value.Value})
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to evaluate", api.ErrInvalidConfig)
	}
	return texts, nil
}
