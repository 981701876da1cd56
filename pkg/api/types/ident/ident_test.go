package ident_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/utils/try"
)

func TestFrameID(t *testing.T) {
	t.Run("New mints a 26-character canonical id", func(t *testing.T) {
		id := ident.New()
		if len(id.String()) != 26 {
			t.Errorf("unexpected id: %s", id)
		}
		if id.IsZero() {
			t.Error("id is zero, unexpectedly")
		}
	})

	t.Run("ids minted later sort later", func(t *testing.T) {
		earlier := ident.At(time.Date(2024, 7, 10, 8, 30, 15, 0, time.UTC))
		later := ident.At(time.Date(2024, 7, 10, 8, 30, 16, 0, time.UTC))

		if earlier.Compare(later) >= 0 {
			t.Errorf("not sorted: %s >= %s", earlier, later)
		}
		if strings.Compare(earlier.String(), later.String()) >= 0 {
			t.Errorf("text form not sorted: %s >= %s", earlier, later)
		}
	})

	t.Run("At embits the given time at millisecond precision", func(t *testing.T) {
		at := time.Date(2024, 7, 10, 8, 30, 15, 250_000_000, time.UTC)
		id := ident.At(at)
		if actual := id.Timestamp(); !actual.Equal(at) {
			t.Errorf("unmatch: %v (expected: %v)", actual, at)
		}
	})

	t.Run("Parse round-trips the canonical form", func(t *testing.T) {
		id := ident.New()
		parsed := try.To(ident.Parse(id.String())).OrFatal(t)
		if !parsed.Equal(id) {
			t.Errorf("unmatch: %s (expected: %s)", parsed, id)
		}
	})

	t.Run("Parse rejects the legacy form", func(t *testing.T) {
		_, err := ident.Parse("0e809a7a-7e2c-4bd6-b2cf-0f4a4cf00d35")
		if !errors.Is(err, ident.ErrFormat) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestDecoder(t *testing.T) {
	newCountingDecoder := func() (*ident.Decoder, *int) {
		warned := 0
		dec := ident.NewDecoder(ident.WithWarn(
			func(format string, args ...any) { warned += 1 },
		))
		return dec, &warned
	}

	t.Run("canonical ids decode without warning", func(t *testing.T) {
		dec, warned := newCountingDecoder()

		id := ident.New()
		decoded := try.To(dec.Decode(id.String())).OrFatal(t)
		if !decoded.Equal(id) {
			t.Errorf("unmatch: %s (expected: %s)", decoded, id)
		}
		if *warned != 0 {
			t.Errorf("warned %d times (expected: 0)", *warned)
		}
	})

	t.Run("a legacy id decodes to the same 16 bytes", func(t *testing.T) {
		dec, _ := newCountingDecoder()

		raw := "0e809a7a-7e2c-4bd6-b2cf-0f4a4cf00d35"
		decoded := try.To(dec.Decode(raw)).OrFatal(t)

		u := try.To(uuid.Parse(raw)).OrFatal(t)
		if decoded != ident.FrameID(u) {
			t.Errorf("bytes unmatch: %v (expected: %v)", decoded, u)
		}

		// the canonical rendering of those bytes round-trips
		back := try.To(dec.Decode(decoded.String())).OrFatal(t)
		if back != decoded {
			t.Errorf("unmatch: %s (expected: %s)", back, decoded)
		}
	})

	t.Run("the legacy warning fires exactly once per decoder", func(t *testing.T) {
		dec, warned := newCountingDecoder()

		legacy := []string{
			"0e809a7a-7e2c-4bd6-b2cf-0f4a4cf00d35",
			"7a6b1dca-3202-4e33-8bd1-016e63e2e139",
			"0e809a7a-7e2c-4bd6-b2cf-0f4a4cf00d35",
		}
		for _, raw := range legacy {
			if _, err := dec.Decode(raw); err != nil {
				t.Fatal(err)
			}
		}
		if *warned != 1 {
			t.Errorf("warned %d times (expected: 1)", *warned)
		}

		// canonical decodes afterwards stay silent too
		if _, err := dec.Decode(ident.New().String()); err != nil {
			t.Fatal(err)
		}
		if *warned != 1 {
			t.Errorf("warned %d times (expected: 1)", *warned)
		}
	})

	t.Run("the warning names the offending id", func(t *testing.T) {
		message := ""
		dec := ident.NewDecoder(ident.WithWarn(
			func(format string, args ...any) {
				message = fmt.Sprintf(format, args...)
			},
		))

		raw := "0e809a7a-7e2c-4bd6-b2cf-0f4a4cf00d35"
		try.To(dec.Decode(raw)).OrFatal(t)

		if !strings.Contains(message, raw) {
			t.Errorf("warning does not name the id: %s", message)
		}
	})

	t.Run("a fresh decoder warns again", func(t *testing.T) {
		raw := "0e809a7a-7e2c-4bd6-b2cf-0f4a4cf00d35"

		dec1, warned1 := newCountingDecoder()
		try.To(dec1.Decode(raw)).OrFatal(t)
		dec2, warned2 := newCountingDecoder()
		try.To(dec2.Decode(raw)).OrFatal(t)

		if *warned1 != 1 || *warned2 != 1 {
			t.Errorf("warned (%d, %d) times (expected: (1, 1))", *warned1, *warned2)
		}
	})

	t.Run("malformed ids fail with ErrFormat", func(t *testing.T) {
		dec, warned := newCountingDecoder()

		for name, raw := range map[string]string{
			"empty":                     "",
			"too short":                 "01J0",
			"36 chars but not an id":    "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
			"36 chars without hyphens":  strings.Repeat("a", 36),
			"canonical length, bad set": strings.Repeat("u", 26), // 'u' is outside the alphabet
		} {
			t.Run(name, func(t *testing.T) {
				_, err := dec.Decode(raw)
				if !errors.Is(err, ident.ErrFormat) {
					t.Errorf("unexpected error: %v", err)
				}
				if !strings.Contains(err.Error(), raw) && raw != "" {
					t.Errorf("error does not name the input: %v", err)
				}
			})
		}
		if *warned != 0 {
			t.Errorf("warned %d times (expected: 0)", *warned)
		}
	})
}
