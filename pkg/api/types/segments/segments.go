// Package segments holds the wire types of the platform's segment resource.
// A segment is a named, ordered run of frames within a dataset.
package segments

type Summary struct {
	Name       string `json:"name" yaml:"name"`
	FrameCount int    `json:"frameCount" yaml:"frameCount"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Name == o.Name && s.FrameCount == o.FrameCount
}

type Detail struct {
	Summary `yaml:",inline"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) && d.Notes == o.Notes
}
