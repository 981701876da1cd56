package catalog

import (
	catalog_apply "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset/catalog/apply"
	catalog_show "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset/catalog/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	apply, err := catalog_apply.New()
	if err != nil {
		return nil, err
	}
	show, err := catalog_show.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate the label catalog of a Tarn dataset.",
		struct{}{},
		flarc.WithSubcommand("apply", apply),
		flarc.WithSubcommand("show", show),
	)
}
