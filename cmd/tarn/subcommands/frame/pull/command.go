package pull

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	trest "github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/tarnlab/tarn/pkg/api/types/data"
	tio "github.com/tarnlab/tarn/pkg/utils/io"
	tpath "github.com/tarnlab/tarn/pkg/utils/path"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to work on ( default: dataset in tarnenv )."`
	Sensor  string `flag:"sensor" alias:"s" metavar:"SENSOR" help:"pull only the units of this sensor."`
}

const (
	ARG_SEGMENT = "SEGMENT"
	ARG_DEST    = "DEST"
)

type Option struct {
	progressOut io.Writer
}

func WithProgressOut(w io.Writer) func(*Option) *Option {
	return func(o *Option) *Option {
		o.progressOut = w
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		progressOut: os.Stderr,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Pull the files of a segment's frames to your local filesystem.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_SEGMENT, Required: true,
				Help: "name of the segment to be pulled.",
			},
			{
				Name: ARG_DEST, Required: false,
				Help: `
directory where the pulled files will be located at.
Files go to DEST/<frame id>/<remote path>.
If the directory does not exist, it will be created.
Default: current directory ".".
`,
			},
		},
		common.NewTask(Task(option.progressOut)),
	)
}

const noBar pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{with string . "suffix"}} {{.}}{{end}}`

func Task(progressOut io.Writer) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		tarnEnv env.TarnEnv,
		client trest.TarnClient,
		cl flarc.Commandline[Flag],
		_ []any,
	) error {
		flags := cl.Flags()
		datasetId, err := common.DatasetOf(flags.Dataset, tarnEnv)
		if err != nil {
			return err
		}
		args := cl.Args()
		segmentName := args[ARG_SEGMENT][0]

		dest := "."
		if 0 < len(args[ARG_DEST]) {
			dest = args[ARG_DEST][0]
		}
		dest, err = tpath.Resolve(dest)
		if err != nil {
			return fmt.Errorf("path resolving error for '%s': %w", dest, err)
		}
		dest = filepath.Clean(dest)

		seq := client.ListFrames(datasetId, segmentName)
		total, err := seq.Total(ctx)
		if err != nil {
			return fmt.Errorf("failed to list frames of %s/%s: %w", datasetId, segmentName, err)
		}

		bar := noBar.New(-1)
		bar.SetWriter(progressOut)
		bar.Start()

		corrupted := 0
		for i := 0; i < total; i++ {
			frame, err := seq.Get(ctx, i)
			if err != nil {
				return fmt.Errorf("failed to list frames of %s/%s: %w", datasetId, segmentName, err)
			}
			frameId, ok := frame.ID()
			if !ok {
				return fmt.Errorf("frame #%d has no id", i)
			}

			var pullErr error
			frame.Iter()(func(sensorName string, unit data.Unit) bool {
				if flags.Sensor != "" && sensorName != flags.Sensor {
					return true
				}
				remote, ok := unit.(*data.Remote)
				if !ok {
					return true
				}

				fdest := filepath.Join(dest, frameId.String(), filepath.FromSlash(remote.Path()))
				bar.Set("prefix", fmt.Sprintf(
					"pulling: %s into %s: ", ellipsis(remote.Path(), 20), ellipsis(dest, 60),
				))

				err := client.Download(ctx, remote, func(r io.Reader) error {
					f, err := tio.CreateAll(fdest, os.FileMode(0666), os.FileMode(0777))
					if err != nil {
						return err
					}
					defer f.Close()

					w := bar.NewProxyWriter(f) // do not close. won't Finish the bar here.
					if _, err := io.Copy(w, r); err != nil {
						return err
					}
					return nil
				})
				if errors.Is(err, trest.ErrChecksumUnmatch) {
					logger.Printf("[WARN] checksum unmatch: %s is saved, but it may be corrupted", fdest)
					corrupted += 1
					return true
				}
				if err != nil {
					pullErr = fmt.Errorf("failed to pull %s of frame %s: %w", sensorName, frameId, err)
					return false
				}
				return true
			})
			if pullErr != nil {
				return pullErr
			}
		}
		bar.Set("prefix", "done.: ")
		bar.Finish()

		if 0 < corrupted {
			return fmt.Errorf("%d files are saved, but they may be corrupted (checksum unmatch)", corrupted)
		}

		return nil
	}
}

func ellipsis(s string, length int) string {
	if len(s) <= length {
		return s
	}

	l := len(s)
	return "[...]" + s[l-length+5:]
}
