package frame

import (
	frame_find "github.com/tarnlab/tarn/cmd/tarn/subcommands/frame/find"
	frame_pull "github.com/tarnlab/tarn/cmd/tarn/subcommands/frame/pull"
	frame_push "github.com/tarnlab/tarn/cmd/tarn/subcommands/frame/push"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	find, err := frame_find.New()
	if err != nil {
		return nil, err
	}
	push, err := frame_push.New()
	if err != nil {
		return nil, err
	}
	pull, err := frame_pull.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate frames of a Tarn segment.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("push", push),
		flarc.WithSubcommand("pull", pull),
	)
}
