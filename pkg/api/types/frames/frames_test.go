package frames_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/lazy"
	"github.com/tarnlab/tarn/pkg/utils/cmp"
	"github.com/tarnlab/tarn/pkg/utils/pointer"
	"github.com/tarnlab/tarn/pkg/utils/try"
)

func TestFrame_order(t *testing.T) {
	t.Run("sensors keep the order they were added in", func(t *testing.T) {
		f := frames.New()
		f.Set("cam1", data.NewLocal("captures/cam1/0001.png"))
		f.Set("lidar", data.NewLocal("scans/0001.bin"))
		f.Set("cam0", data.NewLocal("captures/cam0/0001.png"))

		if !cmp.SliceEq(f.Sensors(), []string{"cam1", "lidar", "cam0"}) {
			t.Errorf("unexpected sensor order: %v", f.Sensors())
		}
	})

	t.Run("replacing a sensor's unit keeps its position", func(t *testing.T) {
		f := frames.New()
		f.Set("cam1", data.NewLocal("captures/cam1/0001.png"))
		f.Set("lidar", data.NewLocal("scans/0001.bin"))
		f.Set("cam1", data.NewLocal("captures/cam1/0001-fixed.png"))

		if !cmp.SliceEq(f.Sensors(), []string{"cam1", "lidar"}) {
			t.Errorf("unexpected sensor order: %v", f.Sensors())
		}
		unit, ok := f.Get("cam1")
		if !ok || unit.Path() != "captures/cam1/0001-fixed.png" {
			t.Errorf("unexpected unit for cam1: %+v", unit)
		}
	})

	t.Run("entries are stamped with their sensor name, in order", func(t *testing.T) {
		f := frames.New()
		f.Set("cam0", data.NewLocal("captures/cam0/0001.png"))
		f.Set("lidar", data.NewLocal("scans/0001.bin"))

		entries := f.Entries()
		if len(entries) != 2 {
			t.Fatalf("unexpected entries: %+v", entries)
		}
		if entries[0].SensorName != "cam0" || entries[1].SensorName != "lidar" {
			t.Errorf("unexpected sensor stamps: %+v", entries)
		}
	})
}

func TestFrame_json(t *testing.T) {
	t.Run("an empty frame without id marshals to an empty list", func(t *testing.T) {
		b := try.To(json.Marshal(frames.New())).OrFatal(t)

		keys := map[string]json.RawMessage{}
		if err := json.Unmarshal(b, &keys); err != nil {
			t.Fatal(err)
		}
		if _, ok := keys["frameId"]; ok {
			t.Errorf("frameId should be absent: %s", string(b))
		}
		if string(keys["frame"]) != "[]" {
			t.Errorf("frame should be an empty list: %s", string(b))
		}
	})

	t.Run("an assigned id marshals in its canonical form", func(t *testing.T) {
		id := ident.New()
		f := frames.New()
		f.SetID(id)
		f.Set("cam0", data.NewLocal("captures/cam0/0001.png"))

		b := try.To(json.Marshal(f)).OrFatal(t)
		parsed := frames.Response{}
		if err := json.Unmarshal(b, &parsed); err != nil {
			t.Fatal(err)
		}
		if parsed.FrameID == nil || *parsed.FrameID != id.String() {
			t.Errorf("unexpected frameId: %v", parsed.FrameID)
		}
		if len(parsed.Frame) != 1 || parsed.Frame[0].SensorName != "cam0" {
			t.Errorf("unexpected frame entries: %+v", parsed.Frame)
		}
	})
}

func TestFromResponse(t *testing.T) {
	quietly := func(string, ...any) {}

	t.Run("it builds the frame with sensors in response order", func(t *testing.T) {
		id := ident.New().String()
		r := frames.Response{
			FrameID: &id,
			Frame: []data.Wire{
				{SensorName: "cam1", RemotePath: pointer.Ref("cam1/0001.png")},
				{SensorName: "lidar", RemotePath: pointer.Ref("lidar/0001.bin")},
				{SensorName: "cam0", RemotePath: pointer.Ref("cam0/0001.png")},
			},
		}

		f := try.To(frames.FromResponse(
			r, 0, nil, ident.NewDecoder(ident.WithWarn(quietly)),
		)).OrFatal(t)

		if got, ok := f.ID(); !ok || got.String() != id {
			t.Errorf("unexpected id: %v (ok=%v)", got, ok)
		}
		if !cmp.SliceEq(f.Sensors(), []string{"cam1", "lidar", "cam0"}) {
			t.Errorf("unexpected sensor order: %v", f.Sensors())
		}
	})

	t.Run("a legacy hyphenated id is accepted", func(t *testing.T) {
		r := frames.Response{
			FrameID: pointer.Ref("123e4567-e89b-12d3-a456-426614174000"),
			Frame:   []data.Wire{},
		}

		f := try.To(frames.FromResponse(
			r, 0, nil, ident.NewDecoder(ident.WithWarn(quietly)),
		)).OrFatal(t)

		id, ok := f.ID()
		if !ok {
			t.Fatal("id should be set")
		}
		if _, err := ident.Parse(id.String()); err != nil {
			t.Errorf("decoded id should be canonical: %v", err)
		}
	})

	t.Run("one bad entry rejects the whole response", func(t *testing.T) {
		id := ident.New().String()
		for name, r := range map[string]frames.Response{
			"an entry without any path": {
				FrameID: &id,
				Frame: []data.Wire{
					{SensorName: "cam0", RemotePath: pointer.Ref("cam0/0001.png")},
					{SensorName: "lidar"},
				},
			},
			"an entry without sensor name": {
				FrameID: &id,
				Frame: []data.Wire{
					{RemotePath: pointer.Ref("cam0/0001.png")},
				},
			},
			"no frame id at all": {
				Frame: []data.Wire{
					{SensorName: "cam0", RemotePath: pointer.Ref("cam0/0001.png")},
				},
			},
		} {
			t.Run(name, func(t *testing.T) {
				f, err := frames.FromResponse(
					r, 0, nil, ident.NewDecoder(ident.WithWarn(quietly)),
				)
				if !errors.Is(err, data.ErrDeserialize) {
					t.Errorf("unexpected error: %v", err)
				}
				if f != nil {
					t.Errorf("no frame should come along an error: %+v", f)
				}
			})
		}
	})

	t.Run("a malformed id rejects the whole response", func(t *testing.T) {
		r := frames.Response{
			FrameID: pointer.Ref("not-an-id"),
			Frame: []data.Wire{
				{SensorName: "cam0", RemotePath: pointer.Ref("cam0/0001.png")},
			},
		}
		if _, err := frames.FromResponse(
			r, 0, nil, ident.NewDecoder(ident.WithWarn(quietly)),
		); !errors.Is(err, ident.ErrFormat) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestFromResponse_urls(t *testing.T) {
	ctx := context.Background()
	quietly := func(string, ...any) {}

	tables := []map[string]string{
		{"cam0": "https://signed.example/0/cam0", "lidar": "https://signed.example/0/lidar"},
		{"cam0": "https://signed.example/1/cam0", "lidar": "https://signed.example/1/lidar"},
		{"cam0": "https://signed.example/2/cam0", "lidar": "https://signed.example/2/lidar"},
		{"cam0": "https://signed.example/3/cam0"},
	}

	newURLSeq := func(calls map[int]int) *lazy.Seq[map[string]string] {
		return lazy.NewSeq(2, func(ctx context.Context, offset int, limit int) ([]map[string]string, int, error) {
			calls[offset] += 1
			end := offset + limit
			if len(tables) < end {
				end = len(tables)
			}
			return tables[offset:end], len(tables), nil
		})
	}

	t.Run("unit urls resolve against the table page covering the frame's position", func(t *testing.T) {
		calls := map[int]int{}
		urls := newURLSeq(calls)

		f := try.To(frames.FromResponse(
			frames.Response{
				FrameID: pointer.Ref(ident.New().String()),
				Frame: []data.Wire{
					{SensorName: "cam0", RemotePath: pointer.Ref("cam0/0003.png")},
					{SensorName: "lidar", RemotePath: pointer.Ref("lidar/0003.bin")},
				},
			},
			2, urls, ident.NewDecoder(ident.WithWarn(quietly)),
		)).OrFatal(t)

		if len(calls) != 0 {
			t.Fatalf("building a frame should not fetch url tables: %v", calls)
		}

		cam0, _ := f.Get("cam0")
		url := try.To(cam0.(*data.Remote).URL().Resolve(ctx)).OrFatal(t)
		if url != "https://signed.example/2/cam0" {
			t.Errorf("unexpected url: %s", url)
		}

		lidar, _ := f.Get("lidar")
		url = try.To(lidar.(*data.Remote).URL().Resolve(ctx)).OrFatal(t)
		if url != "https://signed.example/2/lidar" {
			t.Errorf("unexpected url: %s", url)
		}

		if calls[2] != 1 || len(calls) != 1 {
			t.Errorf("both sensors should share one table page fetch: %v", calls)
		}
	})

	t.Run("a sensor missing from the table fails to resolve", func(t *testing.T) {
		calls := map[int]int{}
		urls := newURLSeq(calls)

		f := try.To(frames.FromResponse(
			frames.Response{
				FrameID: pointer.Ref(ident.New().String()),
				Frame: []data.Wire{
					{SensorName: "lidar", RemotePath: pointer.Ref("lidar/0004.bin")},
				},
			},
			3, urls, ident.NewDecoder(ident.WithWarn(quietly)),
		)).OrFatal(t)

		lidar, _ := f.Get("lidar")
		if _, err := lidar.(*data.Remote).URL().Resolve(ctx); !errors.Is(err, frames.ErrNoURL) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestFrame_Equal(t *testing.T) {
	build := func(mutate func(f *frames.Frame)) *frames.Frame {
		f := frames.New()
		f.Set("cam0", data.NewLocal("captures/cam0/0001.png"))
		f.Set("lidar", data.NewLocal("scans/0001.bin"))
		if mutate != nil {
			mutate(f)
		}
		return f
	}

	theirID := ident.New()

	for name, testcase := range map[string]struct {
		a, b *frames.Frame
		want bool
	}{
		"frames with the same sensors in the same order are equal": {
			a: build(nil), b: build(nil), want: true,
		},
		"sensor order matters": {
			a: build(nil),
			b: func() *frames.Frame {
				f := frames.New()
				f.Set("lidar", data.NewLocal("scans/0001.bin"))
				f.Set("cam0", data.NewLocal("captures/cam0/0001.png"))
				return f
			}(),
			want: false,
		},
		"ids matter": {
			a: build(func(f *frames.Frame) { f.SetID(theirID) }),
			b: build(nil),
			want: false,
		},
		"same ids are equal": {
			a: build(func(f *frames.Frame) { f.SetID(theirID) }),
			b: build(func(f *frames.Frame) { f.SetID(theirID) }),
			want: true,
		},
		"unit contents matter": {
			a: build(nil),
			b: build(func(f *frames.Frame) {
				f.Set("lidar", data.NewLocal("scans/0002.bin"))
			}),
			want: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.a.Equal(testcase.b); got != testcase.want {
				t.Errorf("Equal = %v, want %v", got, testcase.want)
			}
		})
	}
}
