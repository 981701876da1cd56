// Package env reads the per-directory tarnenv file: defaults a user sets
// for the dataset they are working in.
package env

import (
	"os"

	"gopkg.in/yaml.v3"
)

type TarnEnv struct {
	// Dataset is the dataset commands fall back to when -d is not given.
	Dataset string `yaml:"dataset,omitempty"`

	// PageSize overrides how many records listings fetch per request.
	PageSize int `yaml:"pageSize,omitempty"`
}

func New() *TarnEnv {
	return new(TarnEnv)
}

// LoadTarnEnv reads a tarnenv file. A missing file is no error and yields
// an empty env.
func LoadTarnEnv(filepath string) (*TarnEnv, error) {
	env := TarnEnv{}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return &env, nil
	}

	if err := yaml.Unmarshal(content, &env); err != nil {
		return nil, err
	}

	return &env, nil
}
