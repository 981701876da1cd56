package common_test

import (
	"errors"
	"testing"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/youta-t/flarc"
)

func TestDatasetOf(t *testing.T) {
	t.Run("the flag value wins over tarnenv", func(t *testing.T) {
		ds, err := common.DatasetOf("ds-from-flag", env.TarnEnv{Dataset: "ds-from-env"})
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
		if ds != "ds-from-flag" {
			t.Errorf("wrong dataset: %s", ds)
		}
	})

	t.Run("tarnenv is used when the flag is not passed", func(t *testing.T) {
		ds, err := common.DatasetOf("", env.TarnEnv{Dataset: "ds-from-env"})
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
		if ds != "ds-from-env" {
			t.Errorf("wrong dataset: %s", ds)
		}
	})

	t.Run("it is a usage error when neither is given", func(t *testing.T) {
		_, err := common.DatasetOf("", *env.New())
		if !errors.Is(err, flarc.ErrUsage) {
			t.Errorf("returned error is not ErrUsage: %+v", err)
		}
	})
}
