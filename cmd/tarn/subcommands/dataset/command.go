package dataset

import (
	dataset_catalog "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset/catalog"
	dataset_create "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset/create"
	dataset_find "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset/find"
	dataset_show "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	create, err := dataset_create.New()
	if err != nil {
		return nil, err
	}
	find, err := dataset_find.New()
	if err != nil {
		return nil, err
	}
	show, err := dataset_show.New()
	if err != nil {
		return nil, err
	}
	catalog, err := dataset_catalog.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate Tarn datasets.",
		struct{}{},
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("catalog", catalog),
	)
}
