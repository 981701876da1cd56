package apply

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	trest "github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/tarnlab/tarn/pkg/api/types/catalog"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to work on ( default: dataset in tarnenv )."`
}

const ARG_CATALOG_FILE = "CATALOG_FILE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Apply a catalog file as the label catalog of a dataset.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_CATALOG_FILE, Required: true,
				Help: "path to the catalog file. If you need a starting point, try `tarn dataset catalog show`.",
			},
		},
		common.NewTask(Task),
		flarc.WithDescription(`
Apply a catalog file as the label catalog of a dataset.

The catalog declares, per label kind, the categories and attributes
annotations in the dataset may use. Applying replaces the whole catalog.
`),
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

	buf, err := os.ReadFile(cl.Args()[ARG_CATALOG_FILE][0])
	if err != nil {
		return fmt.Errorf("fail to read catalog file: %w", err)
	}

	cat := new(catalog.Catalog)
	if err := yaml.Unmarshal(buf, cat); err != nil {
		return fmt.Errorf("fail to parse catalog file: %w", err)
	}

	if err := client.PutCatalog(ctx, datasetId, *cat); err != nil {
		return fmt.Errorf("failed to apply catalog to dataset %s: %w", datasetId, err)
	}

	logger.Printf("catalog of dataset %s is updated", datasetId)
	return nil
}
