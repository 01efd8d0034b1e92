package svc

import "github.com/goccy/go-yaml"

// ParseConfigYAML parses a configuration file. Fields absent from the file
// keep the values of [DefaultConfig].
func ParseConfigYAML(file []byte) (*Config, error) {
	result := DefaultConfig()

	if err := yaml.Unmarshal(file, result); err != nil {
		return nil, err
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}
