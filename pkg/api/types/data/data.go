// Package data models the single sensor recording a frame holds per sensor.
//
// A unit is one of three variants: Local (a file on this machine, to be
// uploaded), Remote (a file the platform already holds), and CloudAuth (a
// file in a customer bucket the platform is authorized to read).
package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/tarnlab/tarn/pkg/api/types/labels"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/tarnlab/tarn/pkg/lazy"
	"github.com/tarnlab/tarn/pkg/utils/cmp"
	"github.com/tarnlab/tarn/pkg/utils/pointer"
)

// ErrDeserialize flags a unit (or frame) body that cannot be accepted.
// Nothing half-read is ever returned along with it.
var ErrDeserialize = errors.New("cannot deserialize")

// Wire is the serialized form of a unit, as the platform API speaks it.
//
// Pointer fields distinguish absent from zero. Which path field is present
// decides the variant.
type Wire struct {
	SensorName string             `json:"sensorName,omitempty" yaml:"sensorName,omitempty"`
	LocalPath  *string            `json:"localPath,omitempty" yaml:"localPath,omitempty"`
	RemotePath *string            `json:"remotePath,omitempty" yaml:"remotePath,omitempty"`
	CloudPath  *string            `json:"cloudPath,omitempty" yaml:"cloudPath,omitempty"`
	URL        *string            `json:"url,omitempty" yaml:"url,omitempty"`
	Timestamp  *epochtime.Seconds `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Label      *labels.Label      `json:"label,omitempty" yaml:"label,omitempty"`
}

func (w Wire) Equal(other Wire) bool {
	return w.SensorName == other.SensorName &&
		cmp.PEqEq(w.LocalPath, other.LocalPath) &&
		cmp.PEqEq(w.RemotePath, other.RemotePath) &&
		cmp.PEqEq(w.CloudPath, other.CloudPath) &&
		cmp.PEqEq(w.URL, other.URL) &&
		epochtime.Equiv(w.Timestamp, other.Timestamp) &&
		cmp.PEqualWith(w.Label, other.Label, labels.Label.Equal)
}

// Unit is a sensor recording, in any variant.
type Unit interface {
	// Path is the variant's primary path: local, remote, or cloud.
	Path() string

	// TargetRemotePath is where the unit's content goes on the platform.
	//
	// Unless set explicitly, it defaults to the final component of Path()
	// (everything after the last "/"), computed once and then kept.
	TargetRemotePath() string

	// SetTargetRemotePath overrides the target, also after the default was
	// already computed.
	SetTargetRemotePath(p string)

	// Labels gives access to the unit's label container.
	Labels() *labels.Label

	// Wire is the unit's serialized form, without sensor name.
	Wire() Wire
}

// target memoizes the remote filename of a unit.
type target struct {
	path    string
	decided bool
}

func (t *target) of(primary string) string {
	if !t.decided {
		t.decided = true
		if primary != "" {
			t.path = path.Base(primary)
		}
	}
	return t.path
}

func (t *target) set(p string) {
	t.path = p
	t.decided = true
}

// Local is a file on the local filesystem, not uploaded yet.
type Local struct {
	LocalPath string
	Timestamp *epochtime.Seconds
	Label     labels.Label

	target target
}

func NewLocal(localPath string) *Local {
	return &Local{LocalPath: localPath}
}

func (l *Local) Path() string { return l.LocalPath }
func (l *Local) TargetRemotePath() string { return l.target.of(l.LocalPath) }
func (l *Local) SetTargetRemotePath(p string) { l.target.set(p) }
func (l *Local) Labels() *labels.Label { return &l.Label }

func (l *Local) Wire() Wire {
	w := Wire{
		LocalPath: pointer.Ref(l.LocalPath),
		Timestamp: l.Timestamp,
	}
	if l.Label.Any() {
		w.Label = pointer.Ref(l.Label)
	}
	return w
}

func (l *Local) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Wire())
}

func (l *Local) UnmarshalJSON(b []byte) error {
	w := Wire{}
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %s", ErrDeserialize, err)
	}
	parsed, err := LocalFromWire(w)
	if err != nil {
		return err
	}
	*l = *parsed
	return nil
}

func LocalFromWire(w Wire) (*Local, error) {
	if w.LocalPath == nil {
		return nil, fmt.Errorf(`%w: required field missing: "localPath"`, ErrDeserialize)
	}
	l := &Local{LocalPath: *w.LocalPath, Timestamp: w.Timestamp}
	if w.Label != nil {
		l.Label = *w.Label
	}
	return l, nil
}

func (l *Local) Equal(other *Local) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.Wire().Equal(other.Wire())
}

// Remote is a file the platform already holds.
type Remote struct {
	RemotePath string
	Timestamp  *epochtime.Seconds
	Label      labels.Label

	url    *lazy.Value[string]
	target target
}

type RemoteOption func(*Remote) *Remote

// WithURL backs the unit's download URL with the given resolver.
func WithURL(url *lazy.Value[string]) RemoteOption {
	return func(r *Remote) *Remote {
		r.url = url
		return r
	}
}

func NewRemote(remotePath string, options ...RemoteOption) *Remote {
	r := &Remote{RemotePath: remotePath}
	for _, opt := range options {
		r = opt(r)
	}
	return r
}

func (r *Remote) Path() string { return r.RemotePath }
func (r *Remote) TargetRemotePath() string { return r.target.of(r.RemotePath) }
func (r *Remote) SetTargetRemotePath(p string) { r.target.set(p) }
func (r *Remote) Labels() *labels.Label { return &r.Label }

// URL is the unit's download URL resolver. Resolving a unit which was
// given no URL source fails with lazy.ErrNoSource.
func (r *Remote) URL() *lazy.Value[string] {
	if r.url == nil {
		r.url = lazy.NewValue[string](nil)
	}
	return r.url
}

func (r *Remote) Wire() Wire {
	w := Wire{
		RemotePath: pointer.Ref(r.RemotePath),
		Timestamp:  r.Timestamp,
	}
	if url, ok := r.URL().Peek(); ok {
		w.URL = pointer.Ref(url)
	}
	if r.Label.Any() {
		w.Label = pointer.Ref(r.Label)
	}
	return w
}

func (r *Remote) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// RemoteFromWire builds a Remote from its wire form.
//
// fetch backs the unit's URL resolver; when the wire form already carries a
// url, the resolver starts resolved to it and fetch takes over only after
// an invalidation.
func RemoteFromWire(w Wire, fetch lazy.Fetch[string]) (*Remote, error) {
	if w.RemotePath == nil {
		return nil, fmt.Errorf(`%w: required field missing: "remotePath"`, ErrDeserialize)
	}
	r := &Remote{RemotePath: *w.RemotePath, Timestamp: w.Timestamp}
	if w.Label != nil {
		r.Label = *w.Label
	}
	options := []lazy.ValueOption[string]{}
	if w.URL != nil {
		options = append(options, lazy.Seeded(*w.URL))
	}
	r.url = lazy.NewValue(fetch, options...)
	return r, nil
}

func (r *Remote) Equal(other *Remote) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Wire().Equal(other.Wire())
}

// CloudAuth is a file in a customer cloud bucket the platform is authorized
// to read. The platform ingests it server-side; only paths travel.
type CloudAuth struct {
	CloudPath string
	Label     labels.Label

	target target
}

func NewCloudAuth(cloudPath string) *CloudAuth {
	return &CloudAuth{CloudPath: cloudPath}
}

func (c *CloudAuth) Path() string { return c.CloudPath }
func (c *CloudAuth) TargetRemotePath() string { return c.target.of(c.CloudPath) }
func (c *CloudAuth) SetTargetRemotePath(p string) { c.target.set(p) }
func (c *CloudAuth) Labels() *labels.Label { return &c.Label }

func (c *CloudAuth) Wire() Wire {
	w := Wire{
		CloudPath:  pointer.Ref(c.CloudPath),
		RemotePath: pointer.Ref(c.TargetRemotePath()),
	}
	if c.Label.Any() {
		w.Label = pointer.Ref(c.Label)
	}
	return w
}

func (c *CloudAuth) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Wire())
}

func (c *CloudAuth) UnmarshalJSON(b []byte) error {
	w := Wire{}
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %s", ErrDeserialize, err)
	}
	parsed, err := CloudAuthFromWire(w)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func CloudAuthFromWire(w Wire) (*CloudAuth, error) {
	if w.CloudPath == nil {
		return nil, fmt.Errorf(`%w: required field missing: "cloudPath"`, ErrDeserialize)
	}
	c := &CloudAuth{CloudPath: *w.CloudPath}
	if w.RemotePath != nil {
		c.SetTargetRemotePath(*w.RemotePath)
	}
	if w.Label != nil {
		c.Label = *w.Label
	}
	return c, nil
}

func (c *CloudAuth) Equal(other *CloudAuth) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Wire().Equal(other.Wire())
}

// FromWire builds the unit variant w describes, decided by which path
// field is present: localPath means Local, cloudPath means CloudAuth
// (its remotePath, if any, is the target override), a bare remotePath
// means Remote.
//
// fetch backs the URL resolver of a Remote unit; other variants ignore it.
func FromWire(w Wire, fetch lazy.Fetch[string]) (Unit, error) {
	switch {
	case w.LocalPath != nil:
		return LocalFromWire(w)
	case w.CloudPath != nil:
		return CloudAuthFromWire(w)
	case w.RemotePath != nil:
		return RemoteFromWire(w, fetch)
	default:
		return nil, fmt.Errorf(
			`%w: expects one of "localPath", "remotePath" and "cloudPath"`,
			ErrDeserialize,
		)
	}
}
