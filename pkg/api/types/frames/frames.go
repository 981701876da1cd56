// Package frames models one multi-sensor capture: for each sensor name,
// one data unit, in the order the sensors were added.
package frames

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/lazy"
	"github.com/tarnlab/tarn/pkg/utils/cmp"
	"github.com/tarnlab/tarn/pkg/utils/maps"
	"github.com/tarnlab/tarn/pkg/utils/pointer"
)

// ErrNoURL means the platform's url table has no entry for a sensor.
var ErrNoURL = errors.New("no download url")

// Frame is an ordered set of sensor recordings taken at one moment.
//
// The zero value is an empty frame, ready to use.
type Frame struct {
	id    *ident.FrameID
	units maps.Ordered[string, data.Unit]
}

func New() *Frame {
	return &Frame{}
}

// ID is the frame's identifier, if the platform assigned one already.
func (f *Frame) ID() (ident.FrameID, bool) {
	if f.id == nil {
		return ident.FrameID{}, false
	}
	return *f.id, true
}

func (f *Frame) SetID(id ident.FrameID) {
	f.id = &id
}

// Set stores the unit for a sensor. A sensor set before keeps its position
// and only its unit is replaced; a new sensor goes last.
func (f *Frame) Set(sensorName string, unit data.Unit) {
	f.units.Set(sensorName, unit)
}

func (f *Frame) Get(sensorName string) (data.Unit, bool) {
	return f.units.Get(sensorName)
}

func (f *Frame) Len() int {
	return f.units.Len()
}

// Sensors lists the sensor names in the order they were added.
func (f *Frame) Sensors() []string {
	return f.units.Keys()
}

// Iter ranges over sensor name and unit pairs, in order.
func (f *Frame) Iter() func(yield func(string, data.Unit) bool) {
	return f.units.Iter()
}

// Entries lists the units in sensor order as wire forms, each stamped with
// its sensor name.
func (f *Frame) Entries() []data.Wire {
	entries := make([]data.Wire, 0, f.units.Len())
	f.Iter()(func(sensorName string, unit data.Unit) bool {
		w := unit.Wire()
		w.SensorName = sensorName
		entries = append(entries, w)
		return true
	})
	return entries
}

func (f *Frame) MarshalJSON() ([]byte, error) {
	r := Response{Frame: f.Entries()}
	if id, ok := f.ID(); ok {
		r.FrameID = pointer.Ref(id.String())
	}
	return json.Marshal(r)
}

func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if (f.id == nil) != (other.id == nil) {
		return false
	}
	if f.id != nil && !f.id.Equal(*other.id) {
		return false
	}
	return cmp.SliceEqWith(f.Entries(), other.Entries(), data.Wire.Equal)
}

// Response is a frame as the platform's listing endpoints return it.
type Response struct {
	FrameID *string     `json:"frameId,omitempty"`
	Frame   []data.Wire `json:"frame"`
}

// FromResponse builds a frame out of a listing item.
//
// at is the item's position in the listing; the download URL of each unit
// resolves, on demand, against the url table page covering that position,
// looked up by sensor name in urls. Passing nil urls leaves the units
// without a URL source.
//
// The frame id is decoded with dec. Either everything in r is accepted or
// an error is returned and no frame at all.
func FromResponse(r Response, at int, urls *lazy.Seq[map[string]string], dec *ident.Decoder) (*Frame, error) {
	if r.FrameID == nil {
		return nil, fmt.Errorf(`%w: required field missing: "frameId"`, data.ErrDeserialize)
	}

	f := New()
	id, err := dec.Decode(*r.FrameID)
	if err != nil {
		return nil, err
	}
	f.SetID(id)

	for _, entry := range r.Frame {
		if entry.SensorName == "" {
			return nil, fmt.Errorf(`%w: required field missing: "sensorName"`, data.ErrDeserialize)
		}
		unit, err := data.FromWire(entry, urlFor(urls, at, entry.SensorName))
		if err != nil {
			return nil, err
		}
		f.Set(entry.SensorName, unit)
	}

	return f, nil
}

func urlFor(urls *lazy.Seq[map[string]string], at int, sensorName string) lazy.Fetch[string] {
	if urls == nil {
		return nil
	}
	return func(ctx context.Context) (string, error) {
		table, err := urls.Get(ctx, at)
		if err != nil {
			return "", err
		}
		url, ok := table[sensorName]
		if !ok {
			return "", fmt.Errorf("%w for sensor %q", ErrNoURL, sensorName)
		}
		return url, nil
	}
}
