// Package catalog holds the label catalog of a dataset: for each label
// kind, the categories and attributes its labels may use.
package catalog

import (
	"github.com/tarnlab/tarn/pkg/api/types/labels"
	"github.com/tarnlab/tarn/pkg/utils/cmp"
)

// Catalog has one optional subcatalog per label kind.
type Catalog struct {
	Classification *Subcatalog `json:"CLASSIFICATION,omitempty" yaml:"CLASSIFICATION,omitempty"`
	Box2D          *Subcatalog `json:"BOX2D,omitempty" yaml:"BOX2D,omitempty"`
	Box3D          *Subcatalog `json:"BOX3D,omitempty" yaml:"BOX3D,omitempty"`
	Polygon        *Subcatalog `json:"POLYGON,omitempty" yaml:"POLYGON,omitempty"`
	Polyline2D     *Subcatalog `json:"POLYLINE2D,omitempty" yaml:"POLYLINE2D,omitempty"`
	Keypoints2D    *Subcatalog `json:"KEYPOINTS2D,omitempty" yaml:"KEYPOINTS2D,omitempty"`
	Sentence       *Subcatalog `json:"SENTENCE,omitempty" yaml:"SENTENCE,omitempty"`
}

// Of picks the subcatalog for a label kind. Unknown kinds yield nil.
func (c Catalog) Of(kind labels.Kind) *Subcatalog {
	switch kind {
	case labels.KindClassification:
		return c.Classification
	case labels.KindBox2D:
		return c.Box2D
	case labels.KindBox3D:
		return c.Box3D
	case labels.KindPolygon:
		return c.Polygon
	case labels.KindPolyline2D:
		return c.Polyline2D
	case labels.KindKeypoints2D:
		return c.Keypoints2D
	case labels.KindSentence:
		return c.Sentence
	default:
		return nil
	}
}

// Any reports whether at least one subcatalog is present.
func (c Catalog) Any() bool {
	for _, kind := range labels.Kinds() {
		if c.Of(kind) != nil {
			return true
		}
	}
	return false
}

func (c Catalog) Equal(o Catalog) bool {
	for _, kind := range labels.Kinds() {
		if !cmp.PEqualWith(c.Of(kind), o.Of(kind), Subcatalog.Equal) {
			return false
		}
	}
	return true
}

type Subcatalog struct {
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Categories  []Category      `json:"categories,omitempty" yaml:"categories,omitempty"`
	Attributes  []AttributeInfo `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

func (s Subcatalog) Equal(o Subcatalog) bool {
	return s.Description == o.Description &&
		cmp.SliceEqWith(s.Categories, o.Categories, Category.Equal) &&
		cmp.SliceEqWith(s.Attributes, o.Attributes, AttributeInfo.Equal)
}

type Category struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (c Category) Equal(o Category) bool {
	return c == o
}

// AttributeInfo declares one attribute labels of the kind may carry.
// Enum, Minimum and Maximum constrain its values; which of them apply
// depends on Type.
type AttributeInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Enum    []any    `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
}

func (a AttributeInfo) Equal(o AttributeInfo) bool {
	return a.Name == o.Name &&
		a.Type == o.Type &&
		cmp.SliceEqWith(a.Enum, o.Enum, labels.ValueEqual) &&
		cmp.PEqEq(a.Minimum, o.Minimum) &&
		cmp.PEqEq(a.Maximum, o.Maximum)
}
