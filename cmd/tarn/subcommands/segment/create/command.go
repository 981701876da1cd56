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
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to work on ( default: dataset in tarnenv )."`
}

const ARG_NAME = "NAME"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create a new segment in a dataset.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the segment to be created.",
			},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	tarnEnv env.TarnEnv,
	client trest.TarnClient,
	cl flarc.Commandline[Flag],
	_ []any,
) error {
	datasetId, err := common.DatasetOf(cl.Flags().Dataset, tarnEnv)
	if err != nil {
		return err
	}
	name := cl.Args()[ARG_NAME][0]

	created, err := client.CreateSegment(ctx, datasetId, name)
	if err != nil {
		return fmt.Errorf("failed to create segment %s in dataset %s: %w", name, datasetId, err)
	}
	logger.Printf("segment %s is created in dataset %s", created.Name, datasetId)

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	if err := enc.Encode(created); err != nil {
		return err
	}

	return nil
}
