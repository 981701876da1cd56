package find_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tarnlab/tarn/cmd/tarn/env"
	restmock "github.com/tarnlab/tarn/cmd/tarn/rest/mock"
	segment_find "github.com/tarnlab/tarn/cmd/tarn/subcommands/segment/find"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/internal/commandline"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/logger"
	"github.com/tarnlab/tarn/pkg/api/types/segments"
	"github.com/tarnlab/tarn/pkg/lazy"
	"github.com/tarnlab/tarn/pkg/utils/cmp"
)

func TestFindCommand(t *testing.T) {
	fixture := []segments.Summary{
		{Name: "drive-01", FrameCount: 120},
		{Name: "drive-02", FrameCount: 48},
	}

	t.Run("it writes the segments of the dataset to stdout", func(t *testing.T) {
		client := restmock.New(t)
		client.Impl.FindSegments = func(datasetId string) *lazy.Seq[segments.Summary] {
			if datasetId != "ds-0042" {
				t.Errorf("wrong dataset id: (actual, expected) = (%s, ds-0042)", datasetId)
			}
			return lazy.NewSeq(2, func(ctx context.Context, offset, limit int) ([]segments.Summary, int, error) {
				end := offset + limit
				if len(fixture) < end {
					end = len(fixture)
				}
				if len(fixture) <= offset {
					return []segments.Summary{}, len(fixture), nil
				}
				return fixture[offset:end], len(fixture), nil
			})
		}

		stdout := new(strings.Builder)
		err := segment_find.Task(
			context.Background(), logger.Null(), *env.New(), client,
			commandline.MockCommandline[segment_find.Flag]{
				Stdout_: stdout,
				Flags_:  segment_find.Flag{Dataset: "ds-0042"},
				Args_:   map[string][]string{},
			},
			[]any{},
		)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		actual := []segments.Summary{}
		if err := json.Unmarshal([]byte(stdout.String()), &actual); err != nil {
			t.Fatalf("output is not json: %s", stdout.String())
		}
		if !cmp.SliceEqWith(actual, fixture, segments.Summary.Equal) {
			t.Errorf(
				"output:\n===actual===\n%+v\n===expected===\n%+v", actual, fixture,
			)
		}
	})

	t.Run("when reading the listing fails, it returns the error", func(t *testing.T) {
		expectedErr := errors.New("fake error")

		client := restmock.New(t)
		client.Impl.FindSegments = func(datasetId string) *lazy.Seq[segments.Summary] {
			return lazy.NewSeq(2, func(ctx context.Context, offset, limit int) ([]segments.Summary, int, error) {
				return nil, 0, expectedErr
			})
		}

		err := segment_find.Task(
			context.Background(), logger.Null(), env.TarnEnv{Dataset: "ds-0042"}, client,
			commandline.MockCommandline[segment_find.Flag]{
				Stdout_: new(strings.Builder),
				Flags_:  segment_find.Flag{},
				Args_:   map[string][]string{},
			},
			[]any{},
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("returned error is not expected one: %+v", err)
		}
	})
}
