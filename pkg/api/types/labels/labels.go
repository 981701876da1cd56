package labels

import (
	"github.com/tarnlab/tarn/pkg/utils/cmp"
)

// Kind names a label category the platform knows.
//
// The set is fixed; wire keys are these uppercase names. Readers drop
// entries under any other key silently and never write them back.
type Kind string

const (
	KindClassification Kind = "CLASSIFICATION"
	KindBox2D          Kind = "BOX2D"
	KindBox3D          Kind = "BOX3D"
	KindPolygon        Kind = "POLYGON"
	KindPolyline2D     Kind = "POLYLINE2D"
	KindKeypoints2D    Kind = "KEYPOINTS2D"
	KindSentence       Kind = "SENTENCE"
)

// Kinds lists every known kind, in the order catalogs present them.
func Kinds() []Kind {
	return []Kind{
		KindClassification,
		KindBox2D,
		KindBox3D,
		KindPolygon,
		KindPolyline2D,
		KindKeypoints2D,
		KindSentence,
	}
}

// Label is the per-unit label container: at most one entry per kind.
//
// A kind left at its zero value is absent and is not serialized.
type Label struct {
	Classification *Classification      `json:"CLASSIFICATION,omitempty" yaml:"CLASSIFICATION,omitempty"`
	Box2D          []LabeledBox2D       `json:"BOX2D,omitempty" yaml:"BOX2D,omitempty"`
	Box3D          []LabeledBox3D       `json:"BOX3D,omitempty" yaml:"BOX3D,omitempty"`
	Polygon        []LabeledPolygon     `json:"POLYGON,omitempty" yaml:"POLYGON,omitempty"`
	Polyline2D     []LabeledPolyline2D  `json:"POLYLINE2D,omitempty" yaml:"POLYLINE2D,omitempty"`
	Keypoints2D    []LabeledKeypoints2D `json:"KEYPOINTS2D,omitempty" yaml:"KEYPOINTS2D,omitempty"`
	Sentence       []LabeledSentence    `json:"SENTENCE,omitempty" yaml:"SENTENCE,omitempty"`
}

// Any reports whether at least one kind is populated.
func (l Label) Any() bool {
	return l.Classification != nil ||
		0 < len(l.Box2D) ||
		0 < len(l.Box3D) ||
		0 < len(l.Polygon) ||
		0 < len(l.Polyline2D) ||
		0 < len(l.Keypoints2D) ||
		0 < len(l.Sentence)
}

func (l Label) Equal(other Label) bool {
	return cmp.PEqualWith(l.Classification, other.Classification, Classification.Equal) &&
		cmp.SliceEqWith(l.Box2D, other.Box2D, LabeledBox2D.Equal) &&
		cmp.SliceEqWith(l.Box3D, other.Box3D, LabeledBox3D.Equal) &&
		cmp.SliceEqWith(l.Polygon, other.Polygon, LabeledPolygon.Equal) &&
		cmp.SliceEqWith(l.Polyline2D, other.Polyline2D, LabeledPolyline2D.Equal) &&
		cmp.SliceEqWith(l.Keypoints2D, other.Keypoints2D, LabeledKeypoints2D.Equal) &&
		cmp.SliceEqWith(l.Sentence, other.Sentence, LabeledSentence.Equal)
}

// Classification puts the whole unit into a category.
type Classification struct {
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

func (c Classification) Equal(other Classification) bool {
	return c.Category == other.Category &&
		AttributesEqual(c.Attributes, other.Attributes)
}

// Vertex is a point on the image plane.
type Vertex struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vector3D is a point or extent in sensor space.
type Vector3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Quaternion carries an orientation as (w, x, y, z).
type Quaternion struct {
	W float64 `json:"w" yaml:"w"`
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Box2D is an axis-aligned rectangle on the image plane.
type Box2D struct {
	Xmin float64 `json:"xmin" yaml:"xmin"`
	Ymin float64 `json:"ymin" yaml:"ymin"`
	Xmax float64 `json:"xmax" yaml:"xmax"`
	Ymax float64 `json:"ymax" yaml:"ymax"`
}

// Box3D is an oriented cuboid in sensor space.
type Box3D struct {
	Translation Vector3D   `json:"translation" yaml:"translation"`
	Rotation    Quaternion `json:"rotation" yaml:"rotation"`
	Size        Vector3D   `json:"size" yaml:"size"`
}

// Keypoint2D is a vertex with optional visibility flag.
type Keypoint2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	V *int    `json:"v,omitempty" yaml:"v,omitempty"`
}

func (k Keypoint2D) Equal(other Keypoint2D) bool {
	return k.X == other.X && k.Y == other.Y && cmp.PEqEq(k.V, other.V)
}

// Word is one token of a transcribed sentence, with optional timing.
type Word struct {
	Text  string   `json:"text" yaml:"text"`
	Begin *float64 `json:"begin,omitempty" yaml:"begin,omitempty"`
	End   *float64 `json:"end,omitempty" yaml:"end,omitempty"`
}

func (w Word) Equal(other Word) bool {
	return w.Text == other.Text &&
		cmp.PEqEq(w.Begin, other.Begin) &&
		cmp.PEqEq(w.End, other.End)
}

type LabeledBox2D struct {
	Box2D      Box2D          `json:"box2d" yaml:"box2d"`
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Instance   string         `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func (b LabeledBox2D) Equal(other LabeledBox2D) bool {
	return b.Box2D == other.Box2D &&
		b.Category == other.Category &&
		b.Instance == other.Instance &&
		AttributesEqual(b.Attributes, other.Attributes)
}

type LabeledBox3D struct {
	Box3D      Box3D          `json:"box3d" yaml:"box3d"`
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Instance   string         `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func (b LabeledBox3D) Equal(other LabeledBox3D) bool {
	return b.Box3D == other.Box3D &&
		b.Category == other.Category &&
		b.Instance == other.Instance &&
		AttributesEqual(b.Attributes, other.Attributes)
}

type LabeledPolygon struct {
	Vertices   []Vertex       `json:"polygon" yaml:"polygon"`
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Instance   string         `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func (p LabeledPolygon) Equal(other LabeledPolygon) bool {
	return cmp.SliceEq(p.Vertices, other.Vertices) &&
		p.Category == other.Category &&
		p.Instance == other.Instance &&
		AttributesEqual(p.Attributes, other.Attributes)
}

type LabeledPolyline2D struct {
	Vertices   []Vertex       `json:"polyline2d" yaml:"polyline2d"`
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Instance   string         `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func (p LabeledPolyline2D) Equal(other LabeledPolyline2D) bool {
	return cmp.SliceEq(p.Vertices, other.Vertices) &&
		p.Category == other.Category &&
		p.Instance == other.Instance &&
		AttributesEqual(p.Attributes, other.Attributes)
}

type LabeledKeypoints2D struct {
	Keypoints  []Keypoint2D   `json:"keypoints2d" yaml:"keypoints2d"`
	Category   string         `json:"category,omitempty" yaml:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Instance   string         `json:"instance,omitempty" yaml:"instance,omitempty"`
}

func (k LabeledKeypoints2D) Equal(other LabeledKeypoints2D) bool {
	return cmp.SliceEqWith(k.Keypoints, other.Keypoints, Keypoint2D.Equal) &&
		k.Category == other.Category &&
		k.Instance == other.Instance &&
		AttributesEqual(k.Attributes, other.Attributes)
}

type LabeledSentence struct {
	Sentence   []Word         `json:"sentence,omitempty" yaml:"sentence,omitempty"`
	Spell      []Word         `json:"spell,omitempty" yaml:"spell,omitempty"`
	Phone      []Word         `json:"phone,omitempty" yaml:"phone,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

func (s LabeledSentence) Equal(other LabeledSentence) bool {
	return cmp.SliceEqWith(s.Sentence, other.Sentence, Word.Equal) &&
		cmp.SliceEqWith(s.Spell, other.Spell, Word.Equal) &&
		cmp.SliceEqWith(s.Phone, other.Phone, Word.Equal) &&
		AttributesEqual(s.Attributes, other.Attributes)
}

// AttributesEqual compares free-form attribute maps as JSON decoding shapes
// them: scalars, []any and map[string]any, recursively.
func AttributesEqual(a, b map[string]any) bool {
	return cmp.MapEqWith(a, b, ValueEqual)
}

// ValueEqual compares attribute values as decoded from JSON or YAML:
// maps and lists recursively, everything else by ==.
func ValueEqual(a, b any) bool {
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		return ok && cmp.MapEqWith(va, vb, ValueEqual)
	case []any:
		vb, ok := b.([]any)
		return ok && cmp.SliceEqWith(va, vb, ValueEqual)
	default:
		return a == b
	}
}
