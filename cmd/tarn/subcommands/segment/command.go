package segment

import (
	segment_create "github.com/tarnlab/tarn/cmd/tarn/subcommands/segment/create"
	segment_find "github.com/tarnlab/tarn/cmd/tarn/subcommands/segment/find"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	create, err := segment_create.New()
	if err != nil {
		return nil, err
	}
	find, err := segment_find.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate segments of a Tarn dataset.",
		struct{}{},
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("find", find),
	)
}
