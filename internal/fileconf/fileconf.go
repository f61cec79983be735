// Package fileconf decodes the YAML/JSON registry files used for profiles and sinks.
package fileconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	name string
	exts []string
	fn   func([]byte, any) error
}

var decoders = []decoder{
	{name: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
	{name: "json", exts: []string{".json"}, fn: json.Unmarshal},
}

// Load reads the file at path into out. kind names the file in errors
// ("profiles", "sinks"). The extension selects the decoder; files with any
// other extension are tried as YAML and then JSON.
func Load(path, kind string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	return Decode(raw, filepath.Ext(path), kind, out)
}

// Decode is Load for data already in memory.
func Decode(data []byte, ext, kind string, out any) error {
	ext = strings.ToLower(strings.TrimSpace(ext))

	var lastErr error
	for _, d := range decodersFor(ext) {
		if err := d.fn(data, out); err != nil {
			lastErr = fmt.Errorf("decode %s %s: %w", d.name, kind, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%s file format not recognized (expected YAML or JSON)", kind)
}

// decodersFor returns the decoder matching ext, or all of them for unknown extensions.
func decodersFor(ext string) []decoder {
	for _, d := range decoders {
		for _, e := range d.exts {
			if e == ext {
				return []decoder{d}
			}
		}
	}
	return decoders
}
