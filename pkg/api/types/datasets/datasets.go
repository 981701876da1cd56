// Package datasets holds the wire types of the platform's dataset resource.
package datasets

import (
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
)

type Summary struct {
	DatasetID string            `json:"datasetId" yaml:"datasetId"`
	Name      string            `json:"name" yaml:"name"`
	CreatedAt epochtime.Seconds `json:"createdAt" yaml:"createdAt"`
}

func (s Summary) Equal(o Summary) bool {
	return s.DatasetID == o.DatasetID &&
		s.Name == o.Name &&
		s.CreatedAt.Equal(o.CreatedAt)
}

type Detail struct {
	Summary `yaml:",inline"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) && d.Notes == o.Notes
}
