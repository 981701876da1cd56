package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	subdataset "github.com/tarnlab/tarn/cmd/tarn/subcommands/dataset"
	subframe "github.com/tarnlab/tarn/cmd/tarn/subcommands/frame"
	subinit "github.com/tarnlab/tarn/cmd/tarn/subcommands/init"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/logger"
	subsegment "github.com/tarnlab/tarn/cmd/tarn/subcommands/segment"
	subver "github.com/tarnlab/tarn/cmd/tarn/subcommands/version"
	"github.com/tarnlab/tarn/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	dataset := try.To(subdataset.New()).OrFatal(logger)
	segment := try.To(subsegment.New()).OrFatal(logger)
	frame := try.To(subframe.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	tarn := try.To(
		flarc.NewCommandGroup(
			"Tarn commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("dataset", dataset),
			flarc.WithSubcommand("segment", segment),
			flarc.WithSubcommand("frame", frame),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, tarn, flarc.WithHelp(true)))
}
