package create

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
	Notes string `flag:"notes" help:"free-form note on the dataset."`
}

const ARG_NAME = "NAME"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create a new dataset in Tarn.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the dataset to be created.",
			},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	_ env.TarnEnv,
	client trest.TarnClient,
	cl flarc.Commandline[Flag],
	_ []any,
) error {
	name := cl.Args()[ARG_NAME][0]

	created, err := client.CreateDataset(ctx, name, cl.Flags().Notes)
	if err != nil {
		return fmt.Errorf("failed to create dataset %s: %w", name, err)
	}
	logger.Printf("dataset %s is created: %s", created.Name, created.DatasetID)

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	if err := enc.Encode(created); err != nil {
		return err
	}

	return nil
}
