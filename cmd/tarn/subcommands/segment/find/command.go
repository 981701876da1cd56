package find

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	trest "github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to work on ( default: dataset in tarnenv )."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find segments of a dataset.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	_ *log.Logger,
	tarnEnv env.TarnEnv,
	client trest.TarnClient,
	cl flarc.Commandline[Flag],
	_ []any,
) error {
	datasetId, err := common.DatasetOf(cl.Flags().Dataset, tarnEnv)
	if err != nil {
		return err
	}

	found, err := client.FindSegments(datasetId).Slice(ctx)
	if err != nil {
		return fmt.Errorf("failed to find segments of dataset %s: %w", datasetId, err)
	}

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		return err
	}

	return nil
}
