package show

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

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
		"Show the label catalog of a dataset, as yaml.",
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

	cat, err := client.GetCatalog(ctx, datasetId)
	if err != nil {
		return fmt.Errorf("failed to get catalog of dataset %s: %w", datasetId, err)
	}

	enc := yaml.NewEncoder(cl.Stdout())
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(cat); err != nil {
		return err
	}

	return nil
}
