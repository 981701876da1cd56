package push

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"gopkg.in/yaml.v3"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	trest "github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/api/types/labels"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/youta-t/flarc"
)

// Manifest describes frames to be pushed: for each frame, its key and its
// units in sensor order.
type Manifest struct {
	Frames []FrameEntry `yaml:"frames"`
}

type FrameEntry struct {
	// FrameID orders the frame by an id minted by the pusher.
	//
	// Exactly one of FrameID and Timestamp must be set.
	FrameID string `yaml:"frameId,omitempty"`

	// Timestamp orders the frame by capture time; the platform mints the id.
	Timestamp *epochtime.Seconds `yaml:"timestamp,omitempty"`

	Units []UnitEntry `yaml:"units"`
}

type UnitEntry struct {
	Sensor    string `yaml:"sensor"`
	LocalPath string `yaml:"localPath"`

	// TargetRemotePath overrides where the file is stored in the segment.
	// Default: the basename of LocalPath.
	TargetRemotePath string `yaml:"targetRemotePath,omitempty"`

	Label *labels.Label `yaml:"label,omitempty"`
}

type Flag struct {
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to work on ( default: dataset in tarnenv )."`
	File    string `flag:"file" alias:"f" metavar:"MANIFEST_FILE" help:"path to the manifest file describing the frames to be pushed."`
}

const ARG_SEGMENT = "SEGMENT"

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
		"Push frames into a segment: upload their files and register them.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_SEGMENT, Required: true,
				Help: "name of the segment the frames are pushed into.",
			},
		},
		common.NewTask(Task(option.progressOut)),
		flarc.WithDescription(`
Push frames into a segment.

The manifest file (--file) lists frames. Each frame holds exactly one of
"frameId" and "timestamp", and its units in sensor order:

    frames:
      - timestamp: 1626338400.5
        units:
          - sensor: front-camera
            localPath: ./capture/000-cam.png
          - sensor: lidar
            localPath: ./capture/000-scan.pcd
            targetRemotePath: scans/000.pcd

Files are uploaded first; once all units of a frame are stored, the frame
is registered with the uploaded remote paths.
`),
	)
}

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
		segmentName := cl.Args()[ARG_SEGMENT][0]

		if flags.File == "" {
			return fmt.Errorf("%w: --file is required", flarc.ErrUsage)
		}
		buf, err := os.ReadFile(flags.File)
		if err != nil {
			return fmt.Errorf("fail to read manifest file: %w", err)
		}
		manifest := new(Manifest)
		if err := yaml.Unmarshal(buf, manifest); err != nil {
			return fmt.Errorf("fail to parse manifest file: %w", err)
		}
		if err := verify(manifest); err != nil {
			return err
		}

		total := len(manifest.Frames)
		for n, entry := range manifest.Frames {
			frame := frames.New()
			if entry.FrameID != "" {
				id, err := ident.Parse(entry.FrameID)
				if err != nil {
					return fmt.Errorf("%w: frame #%d: %s", flarc.ErrUsage, n+1, err)
				}
				frame.SetID(id)
			}

			for _, u := range entry.Units {
				local := data.NewLocal(u.LocalPath)
				if u.TargetRemotePath != "" {
					local.SetTargetRemotePath(u.TargetRemotePath)
				}

				logger.Printf("[[%d/%d]] sending... %s", n+1, total, u.LocalPath)
				wire, err := send(ctx, logger, client, progressOut, datasetId, segmentName, local)
				if err != nil {
					return err
				}

				remote := data.NewRemote(*wire.RemotePath)
				if u.Label != nil {
					*remote.Labels() = *u.Label
				}
				frame.Set(u.Sensor, remote)
			}

			frameId, err := client.PostFrame(ctx, datasetId, segmentName, frame, entry.Timestamp)
			if err != nil {
				return fmt.Errorf("failed to register frame #%d: %w", n+1, err)
			}
			logger.Printf("[[%d/%d]] frame is registered: %s", n+1, total, frameId)
		}

		return nil
	}
}

func verify(m *Manifest) error {
	if len(m.Frames) == 0 {
		return fmt.Errorf("%w: the manifest has no frames", flarc.ErrUsage)
	}
	for n, entry := range m.Frames {
		if (entry.FrameID == "") == (entry.Timestamp == nil) {
			return fmt.Errorf(
				"%w: frame #%d takes exactly one of frameId and timestamp", flarc.ErrUsage, n+1,
			)
		}
		if len(entry.Units) == 0 {
			return fmt.Errorf("%w: frame #%d has no units", flarc.ErrUsage, n+1)
		}
		for _, u := range entry.Units {
			if u.Sensor == "" || u.LocalPath == "" {
				return fmt.Errorf(
					"%w: frame #%d: each unit takes sensor and localPath", flarc.ErrUsage, n+1,
				)
			}
		}
	}
	return nil
}

func send(
	ctx context.Context,
	logger *log.Logger,
	client trest.TarnClient,
	progressOut io.Writer,
	datasetId string,
	segmentName string,
	local *data.Local,
) (data.Wire, error) {
	prog := client.UploadFile(ctx, datasetId, segmentName, local)

	bar := pb.New64(prog.EstimatedTotalSize())
	bar.Set(pb.Bytes, true)
	bar.SetWriter(progressOut)
	if err := bar.Err(); err != nil {
		return data.Wire{}, err
	}

	bar.Start()
	for {
		select {
		case <-time.NewTimer(1 * time.Second).C:
			bar.SetTotal(prog.EstimatedTotalSize())
			bar.SetCurrent(prog.ProgressedSize())
			bar.Set("prefix", ellipsis(prog.ProgressingFile(), 60)+":")
			continue
		case <-prog.Sent():
			bar.SetTotal(prog.EstimatedTotalSize())
			bar.SetCurrent(prog.ProgressedSize())
			bar.Set("prefix", "")
		}
		break
	}
	bar.Finish()
	select {
	case <-time.NewTimer(1 * time.Second).C:
		logger.Println("waiting server...")
	case <-prog.Done():
	}
	<-prog.Done()
	if err := prog.Error(); err != nil {
		return data.Wire{}, err
	}

	wire, ok := prog.Result()
	if !ok || wire.RemotePath == nil {
		return data.Wire{}, fmt.Errorf("[ERROR] failed to store %s", local.Path())
	}
	logger.Printf("stored: %s -> %s", local.Path(), *wire.RemotePath)

	return wire, nil
}

func ellipsis(s string, length int) string {
	if len(s) <= length {
		return s
	}

	l := len(s)
	return "[...]" + s[l-length+5:]
}
