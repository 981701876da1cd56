package ident

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ErrFormat is returned when a string is not a frame id in any accepted form.
var ErrFormat = errors.New("malformed frame id")

// length of the hyphenated legacy id form.
const legacyIDLength = 36

// FrameID is the 128-bit identifier of a frame.
//
// Its canonical text form is a 26-character sortable string (Crockford
// base32). Ids minted later sort later, at millisecond precision, so a
// listing ordered by id is ordered by capture time.
type FrameID ulid.ULID

// New mints a FrameID for the current time.
func New() FrameID {
	return FrameID(ulid.Make())
}

// At mints a FrameID whose time component is t.
func At(t time.Time) FrameID {
	return FrameID(ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()))
}

// Parse reads the canonical 26-character form only.
//
// For ids coming from the platform, which may still be in the legacy form,
// use Decoder.Decode.
func Parse(s string) (FrameID, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return FrameID{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return FrameID(id), nil
}

func (id FrameID) String() string {
	return ulid.ULID(id).String()
}

// Timestamp recovers the time component of the id.
func (id FrameID) Timestamp() time.Time {
	return ulid.Time(ulid.ULID(id).Time())
}

func (id FrameID) IsZero() bool {
	return id == FrameID{}
}

func (id FrameID) Equal(other FrameID) bool {
	return id == other
}

// Compare orders ids bytewise, which is also chronological order.
func (id FrameID) Compare(other FrameID) int {
	return bytes.Compare(id[:], other[:])
}

func (id FrameID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *FrameID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Decoder reads frame ids from the wire.
//
// Besides the canonical form it accepts the 36-character hyphenated id form
// that records written by old platform versions still carry. The first such
// fallback is reported through warn; the decoder then stays silent, however
// many legacy ids follow. Share one Decoder per client so the report happens
// once overall.
type Decoder struct {
	warn   func(format string, args ...any)
	warned bool
}

type DecoderOption func(*Decoder) *Decoder

// WithWarn routes the legacy-form report. The default is log.Printf.
func WithWarn(warn func(format string, args ...any)) DecoderOption {
	return func(d *Decoder) *Decoder {
		d.warn = warn
		return d
	}
}

func NewDecoder(options ...DecoderOption) *Decoder {
	d := &Decoder{warn: log.Printf}
	for _, opt := range options {
		d = opt(d)
	}
	return d
}

// Decode parses raw as a frame id.
//
// The canonical form is tried first. A 36-character hyphenated legacy id is
// accepted as fallback; its 16 bytes become the FrameID value as-is, so the
// id keeps identity across both forms. Anything else fails with ErrFormat.
func (d *Decoder) Decode(raw string) (FrameID, error) {
	if id, err := ulid.ParseStrict(raw); err == nil {
		return FrameID(id), nil
	}

	if len(raw) == legacyIDLength {
		if u, err := uuid.Parse(raw); err == nil {
			if !d.warned {
				d.warned = true
				d.warn(
					"legacy frame id found (%s): this form is deprecated and reported only once",
					raw,
				)
			}
			return FrameID(u), nil
		}
	}

	return FrameID{}, fmt.Errorf("%w: %q", ErrFormat, raw)
}
