package find

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	trest "github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to work on ( default: dataset in tarnenv )."`
	Limit   int    `flag:"limit" alias:"l" metavar:"N" help:"show at most N frames. 0 means no limit."`
}

const ARG_SEGMENT = "SEGMENT"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find frames of a segment.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_SEGMENT, Required: true,
				Help: "name of the segment whose frames are to be found.",
			},
		},
		common.NewTask(Task),
		flarc.WithDescription(`
Find frames of a segment, in the segment's order.

The listing is fetched page by page; with --limit, only the pages
covering the first N frames are requested.
`),
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
	segmentName := cl.Args()[ARG_SEGMENT][0]

	seq := client.ListFrames(datasetId, segmentName)
	total, err := seq.Total(ctx)
	if err != nil {
		return fmt.Errorf("failed to list frames of %s/%s: %w", datasetId, segmentName, err)
	}

	n := total
	if limit := cl.Flags().Limit; 0 < limit && limit < n {
		n = limit
	}

	found := make([]*frames.Frame, 0, n)
	for i := 0; i < n; i++ {
		f, err := seq.Get(ctx, i)
		if err != nil {
			return fmt.Errorf("failed to list frames of %s/%s: %w", datasetId, segmentName, err)
		}
		found = append(found, f)
	}

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		return err
	}

	return nil
}
