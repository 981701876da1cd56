package common

import (
	"fmt"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	"github.com/youta-t/flarc"
)

// DatasetOf picks the dataset a command works on: the --dataset flag
// value when given, the tarnenv default otherwise.
func DatasetOf(flagValue string, e env.TarnEnv) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if e.Dataset != "" {
		return e.Dataset, nil
	}
	return "", fmt.Errorf(
		`%w: --dataset is required (or set "dataset" in tarnenv)`, flarc.ErrUsage,
	)
}
