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
	Name string `flag:"name" alias:"n" metavar:"NAME" help:"name of datasets to be found. Exact match."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find datasets in Tarn.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
Find datasets registered in Tarn.

When --name is given, only datasets with exactly that name are found.
Otherwise, all datasets are found.
`),
	)
}

func Task(
	ctx context.Context,
	_ *log.Logger,
	_ env.TarnEnv,
	client trest.TarnClient,
	cl flarc.Commandline[Flag],
	_ []any,
) error {
	found, err := client.FindDatasets(cl.Flags().Name).Slice(ctx)
	if err != nil {
		return fmt.Errorf("failed to find datasets: %w", err)
	}

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		return err
	}

	return nil
}
