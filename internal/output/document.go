package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteDocument writes v to w as one YAML or JSON document.
func WriteDocument(v any, format OutputFormat, w io.Writer) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		return writeYAML(v, w)
	default:
		return fmt.Errorf("format %s not supported for document output", format)
	}
}

// MarshalYAML renders v as a YAML document with two-space indentation.
func MarshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeYAML(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeYAML(v any, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	err := encoder.Encode(v)
	if closeErr := encoder.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return nil
}
