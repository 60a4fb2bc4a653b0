package backup

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/metaflow/internal/errors"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode renders an export document. JSON is canonical; YAML carries the same tree.
func Encode(doc *Document, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML, "yml":
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return yaml.Marshal(tree)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Decode turns an encoded export back into the JSON payload ImportAll expects.
func Decode(data []byte, format string) (json.RawMessage, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: not valid JSON", errors.ErrInvalidImportPayload)
		}
		return data, nil
	case FormatYAML, "yml":
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidImportPayload, err)
		}
		out, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidImportPayload, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported import format %q", format)
}

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}
