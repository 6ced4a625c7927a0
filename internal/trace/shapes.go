package trace

import (
	"fmt"
	"sort"
	"strings"
)

type ShapeKind int

const (
	ShapeUnknown ShapeKind = iota
	ShapeCircle
	ShapePolygon
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	case ShapeCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// ParseShapeKind maps a shape label to its kind. Labels are matched loosely
// since recorders spell them differently ("poly", "POLYGON", "shape_capsule").
func ParseShapeKind(label string) ShapeKind {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return ShapeUnknown
	case strings.Contains(l, "circle"):
		return ShapeCircle
	case strings.Contains(l, "capsule"), strings.Contains(l, "flipper"):
		return ShapeCapsule
	case strings.Contains(l, "poly"):
		return ShapePolygon
	}
	return ShapeUnknown
}

// TagTable maps the numeric shape tag found in a recording to a shape kind.
type TagTable map[int]ShapeKind

// The two numbering schemes seen in recordings.
var (
	CurrentTags = TagTable{1: ShapeCircle, 3: ShapePolygon, 4: ShapeCapsule}
	LegacyTags  = TagTable{0: ShapeCircle, 2: ShapePolygon, 3: ShapeCapsule}
)

var namedTables = map[string]TagTable{
	"current": CurrentTags,
	"legacy":  LegacyTags,
}

// TagTableByName returns a built-in table. An empty name selects "current".
func TagTableByName(name string) (TagTable, error) {
	if name == "" {
		name = "current"
	}
	t, ok := namedTables[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(namedTables))
		for n := range namedTables {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown shape table %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return t, nil
}

// TagTableFromLabels builds a table from a label -> tag map as embedded in a
// recording. Unrecognised labels are skipped.
func TagTableFromLabels(labels map[string]int) TagTable {
	if len(labels) == 0 {
		return nil
	}
	t := make(TagTable, len(labels))
	for label, tag := range labels {
		if k := ParseShapeKind(label); k != ShapeUnknown {
			t[tag] = k
		}
	}
	return t
}

// shapeResolver picks a kind for a body. Tables are consulted in order and an
// answer is only accepted when the shape carries the fields that kind needs;
// the label and then the fields themselves are the fallbacks.
type shapeResolver struct {
	tables []TagTable
}

func newShapeResolver(embedded, configured TagTable) shapeResolver {
	var r shapeResolver
	for _, t := range []TagTable{embedded, configured} {
		if len(t) > 0 {
			r.tables = append(r.tables, t)
		}
	}
	return r
}

func (r shapeResolver) resolve(st ShapeType, d ShapeData) Shape {
	for _, t := range r.tables {
		if k, ok := t[st.ID]; ok && d.fits(k) {
			return d.build(k, st.ID)
		}
	}
	if k := ParseShapeKind(st.Label); d.fits(k) {
		return d.build(k, st.ID)
	}
	return d.build(d.infer(), st.ID)
}
