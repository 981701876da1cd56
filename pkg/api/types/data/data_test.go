package data_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/labels"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/tarnlab/tarn/pkg/lazy"
	"github.com/tarnlab/tarn/pkg/utils/pointer"
	"github.com/tarnlab/tarn/pkg/utils/try"
)

func TestLocal_json(t *testing.T) {
	t.Run("when a body carries path, timestamp and label, they all survive a round-trip", func(t *testing.T) {
		body := `{
			"localPath": "captures/cam0/000001.png",
			"timestamp": 1724550000.25,
			"label": {"CLASSIFICATION": {"category": "dog"}}
		}`

		l := data.Local{}
		if err := json.Unmarshal([]byte(body), &l); err != nil {
			t.Fatal(err)
		}

		if l.LocalPath != "captures/cam0/000001.png" {
			t.Errorf("unexpected localPath: %s", l.LocalPath)
		}
		if l.Timestamp == nil || !l.Timestamp.Equal(epochtime.Seconds(1724550000.25)) {
			t.Errorf("unexpected timestamp: %v", l.Timestamp)
		}
		if l.Label.Classification == nil || l.Label.Classification.Category != "dog" {
			t.Errorf("unexpected label: %+v", l.Label)
		}

		remarshaled := try.To(json.Marshal(&l)).OrFatal(t)
		parsed := data.Local{}
		if err := json.Unmarshal(remarshaled, &parsed); err != nil {
			t.Fatal(err)
		}
		if !parsed.Equal(&l) {
			t.Errorf("round-trip changed the unit: %s", string(remarshaled))
		}
	})

	t.Run("when timestamp and label are not given, the marshaled body does not have them", func(t *testing.T) {
		l := data.NewLocal("captures/cam0/000001.png")

		b := try.To(json.Marshal(l)).OrFatal(t)
		keys := map[string]any{}
		if err := json.Unmarshal(b, &keys); err != nil {
			t.Fatal(err)
		}

		if _, ok := keys["timestamp"]; ok {
			t.Errorf("timestamp should be absent: %s", string(b))
		}
		if _, ok := keys["label"]; ok {
			t.Errorf("label should be absent: %s", string(b))
		}
		if keys["localPath"] != "captures/cam0/000001.png" {
			t.Errorf("unexpected localPath: %s", string(b))
		}
	})

	t.Run("when localPath is missing, it returns ErrDeserialize and leaves the receiver as is", func(t *testing.T) {
		l := data.Local{LocalPath: "before"}
		err := json.Unmarshal([]byte(`{"timestamp": 12.5}`), &l)

		if !errors.Is(err, data.ErrDeserialize) {
			t.Errorf("unexpected error: %v", err)
		}
		if err == nil || !errorMentions(err, "localPath") {
			t.Errorf("error should name the missing field: %v", err)
		}
		if l.LocalPath != "before" {
			t.Errorf("receiver should be untouched on failure: %+v", l)
		}
	})
}

func errorMentions(err error, field string) bool {
	return err != nil && strings.Contains(err.Error(), field)
}

func TestUnit_targetRemotePath(t *testing.T) {
	t.Run("it defaults to the final path component", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			unit data.Unit
			want string
		}{
			"local":      {data.NewLocal("a/b/hello.txt"), "hello.txt"},
			"remote":     {data.NewRemote("scans/lidar/frame-12.bin"), "frame-12.bin"},
			"cloud auth": {data.NewCloudAuth("s3://bucket/raw/0001.jpg"), "0001.jpg"},
			"bare name":  {data.NewLocal("hello.txt"), "hello.txt"},
		} {
			t.Run(name, func(t *testing.T) {
				if got := testcase.unit.TargetRemotePath(); got != testcase.want {
					t.Errorf("unexpected target: %s (want %s)", got, testcase.want)
				}
			})
		}
	})

	t.Run("the default is computed once and then kept", func(t *testing.T) {
		l := data.NewLocal("a/b/hello.txt")
		if got := l.TargetRemotePath(); got != "hello.txt" {
			t.Fatalf("unexpected target: %s", got)
		}

		l.LocalPath = "elsewhere/other.txt"
		if got := l.TargetRemotePath(); got != "hello.txt" {
			t.Errorf("target should not follow later path changes: %s", got)
		}
	})

	t.Run("setting overrides, also after the default was computed", func(t *testing.T) {
		l := data.NewLocal("a/b/hello.txt")
		_ = l.TargetRemotePath()

		l.SetTargetRemotePath("renamed/hello-2.txt")
		if got := l.TargetRemotePath(); got != "renamed/hello-2.txt" {
			t.Errorf("unexpected target: %s", got)
		}
	})

	t.Run("setting before the first read skips the default entirely", func(t *testing.T) {
		l := data.NewLocal("a/b/hello.txt")
		l.SetTargetRemotePath("explicit.txt")
		if got := l.TargetRemotePath(); got != "explicit.txt" {
			t.Errorf("unexpected target: %s", got)
		}
	})
}

func TestRemote_url(t *testing.T) {
	ctx := context.Background()

	t.Run("when the wire form carries a url, it resolves without fetching", func(t *testing.T) {
		fetched := 0
		r := try.To(data.RemoteFromWire(
			data.Wire{
				RemotePath: pointer.Ref("scans/frame-1.bin"),
				URL:        pointer.Ref("https://signed.example/frame-1"),
			},
			func(context.Context) (string, error) {
				fetched += 1
				return "https://signed.example/fresh", nil
			},
		)).OrFatal(t)

		url := try.To(r.URL().Resolve(ctx)).OrFatal(t)
		if url != "https://signed.example/frame-1" {
			t.Errorf("unexpected url: %s", url)
		}
		if fetched != 0 {
			t.Errorf("fetch should not run while the seeded url holds: %d calls", fetched)
		}

		r.URL().Invalidate()
		url = try.To(r.URL().Resolve(ctx)).OrFatal(t)
		if url != "https://signed.example/fresh" {
			t.Errorf("unexpected url after invalidation: %s", url)
		}
		if fetched != 1 {
			t.Errorf("fetch should run once after invalidation: %d calls", fetched)
		}
	})

	t.Run("when the wire form has no url, the first resolve fetches and later ones reuse it", func(t *testing.T) {
		fetched := 0
		r := try.To(data.RemoteFromWire(
			data.Wire{RemotePath: pointer.Ref("scans/frame-1.bin")},
			func(context.Context) (string, error) {
				fetched += 1
				return "https://signed.example/frame-1", nil
			},
		)).OrFatal(t)

		if _, ok := r.URL().Peek(); ok {
			t.Error("url should not be resolved yet")
		}

		for i := 0; i < 2; i++ {
			url := try.To(r.URL().Resolve(ctx)).OrFatal(t)
			if url != "https://signed.example/frame-1" {
				t.Errorf("unexpected url: %s", url)
			}
		}
		if fetched != 1 {
			t.Errorf("fetch should run once: %d calls", fetched)
		}
	})

	t.Run("a unit given neither url nor fetch fails to resolve", func(t *testing.T) {
		r := data.NewRemote("scans/frame-1.bin")
		if _, err := r.URL().Resolve(ctx); !errors.Is(err, lazy.ErrNoSource) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("the marshaled body has url only once it is resolved", func(t *testing.T) {
		r := try.To(data.RemoteFromWire(
			data.Wire{RemotePath: pointer.Ref("scans/frame-1.bin")},
			func(context.Context) (string, error) { return "https://signed.example/frame-1", nil },
		)).OrFatal(t)

		before := try.To(json.Marshal(r)).OrFatal(t)
		keys := map[string]any{}
		if err := json.Unmarshal(before, &keys); err != nil {
			t.Fatal(err)
		}
		if _, ok := keys["url"]; ok {
			t.Errorf("url should be absent before resolving: %s", string(before))
		}

		try.To(r.URL().Resolve(ctx)).OrFatal(t)

		after := try.To(json.Marshal(r)).OrFatal(t)
		keys = map[string]any{}
		if err := json.Unmarshal(after, &keys); err != nil {
			t.Fatal(err)
		}
		if keys["url"] != "https://signed.example/frame-1" {
			t.Errorf("url should appear once resolved: %s", string(after))
		}
	})
}

func TestCloudAuth_json(t *testing.T) {
	t.Run("when a body carries cloudPath and remotePath, the latter becomes the target", func(t *testing.T) {
		c := data.CloudAuth{}
		err := json.Unmarshal(
			[]byte(`{"cloudPath": "s3://bucket/raw/0001.jpg", "remotePath": "renamed/0001.jpg"}`),
			&c,
		)
		if err != nil {
			t.Fatal(err)
		}

		if c.CloudPath != "s3://bucket/raw/0001.jpg" {
			t.Errorf("unexpected cloudPath: %s", c.CloudPath)
		}
		if got := c.TargetRemotePath(); got != "renamed/0001.jpg" {
			t.Errorf("unexpected target: %s", got)
		}
	})

	t.Run("the marshaled body carries cloudPath and the target as remotePath", func(t *testing.T) {
		c := data.NewCloudAuth("s3://bucket/raw/0001.jpg")
		c.Label.Classification = &labels.Classification{Category: "cat"}

		b := try.To(json.Marshal(c)).OrFatal(t)
		keys := map[string]any{}
		if err := json.Unmarshal(b, &keys); err != nil {
			t.Fatal(err)
		}

		if keys["cloudPath"] != "s3://bucket/raw/0001.jpg" {
			t.Errorf("unexpected cloudPath: %s", string(b))
		}
		if keys["remotePath"] != "0001.jpg" {
			t.Errorf("unexpected remotePath: %s", string(b))
		}
		if _, ok := keys["label"]; !ok {
			t.Errorf("label should be present: %s", string(b))
		}
		if _, ok := keys["timestamp"]; ok {
			t.Errorf("cloud auth units have no timestamp: %s", string(b))
		}
	})

	t.Run("when cloudPath is missing, it returns ErrDeserialize", func(t *testing.T) {
		c := data.CloudAuth{}
		err := json.Unmarshal([]byte(`{"remotePath": "renamed/0001.jpg"}`), &c)
		if !errors.Is(err, data.ErrDeserialize) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestFromWire(t *testing.T) {
	for name, testcase := range map[string]struct {
		when data.Wire
		then func(t *testing.T, got data.Unit, err error)
	}{
		"a localPath body becomes Local": {
			when: data.Wire{LocalPath: pointer.Ref("a/b.png")},
			then: func(t *testing.T, got data.Unit, err error) {
				if err != nil {
					t.Fatal(err)
				}
				if _, ok := got.(*data.Local); !ok {
					t.Errorf("unexpected variant: %T", got)
				}
			},
		},
		"a cloudPath body becomes CloudAuth even along a remotePath": {
			when: data.Wire{
				CloudPath:  pointer.Ref("s3://bucket/a/b.png"),
				RemotePath: pointer.Ref("renamed/b.png"),
			},
			then: func(t *testing.T, got data.Unit, err error) {
				if err != nil {
					t.Fatal(err)
				}
				c, ok := got.(*data.CloudAuth)
				if !ok {
					t.Fatalf("unexpected variant: %T", got)
				}
				if c.TargetRemotePath() != "renamed/b.png" {
					t.Errorf("unexpected target: %s", c.TargetRemotePath())
				}
			},
		},
		"a bare remotePath body becomes Remote": {
			when: data.Wire{RemotePath: pointer.Ref("a/b.png")},
			then: func(t *testing.T, got data.Unit, err error) {
				if err != nil {
					t.Fatal(err)
				}
				if _, ok := got.(*data.Remote); !ok {
					t.Errorf("unexpected variant: %T", got)
				}
			},
		},
		"a body with no path is refused": {
			when: data.Wire{Timestamp: pointer.Ref(epochtime.Seconds(12.5))},
			then: func(t *testing.T, got data.Unit, err error) {
				if !errors.Is(err, data.ErrDeserialize) {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := data.FromWire(testcase.when, nil)
			testcase.then(t, got, err)
		})
	}
}
