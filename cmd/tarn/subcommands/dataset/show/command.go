package show

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

const ARG_DATASET_ID = "DATASET_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show a dataset in Tarn.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_DATASET_ID, Required: true,
				Help: "id of the dataset to be shown.",
			},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	_ *log.Logger,
	_ env.TarnEnv,
	client trest.TarnClient,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	datasetId := cl.Args()[ARG_DATASET_ID][0]

	detail, err := client.GetDataset(ctx, datasetId)
	if err != nil {
		return fmt.Errorf("failed to get dataset %s: %w", datasetId, err)
	}

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	if err := enc.Encode(detail); err != nil {
		return err
	}

	return nil
}
