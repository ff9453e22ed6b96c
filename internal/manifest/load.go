package manifest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML pack manifest file from path.
func Load(path string) (*PackManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m PackManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
