package graph

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
)

// Feature types written to the "type" property.
const (
	featureNode     = "node"
	featureEdge     = "edge"
	featureCrossing = "crossing"
)

// MarshalGeoJSON encodes d, and the crossings in list if any, as a GeoJSON
// FeatureCollection.
//
// Nodes become Point features with "id" and "kind" properties. Edges become
// two-point LineString features with "from" and "to". Crossings become
// Point or LineString features with an "edges" list of "from-to" strings.
func MarshalGeoJSON(d *drawing.Drawing, list []crossings.Crossing) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, n := range d.Nodes() {
		f := geojson.NewFeature(orb.Point{n.X, n.Y})
		f.Properties["type"] = featureNode
		f.Properties["id"] = n.ID
		f.Properties["kind"] = n.Kind.String()
		fc.Append(f)
	}
	for _, e := range d.Edges() {
		seg, ok := d.Segment(e)
		if !ok {
			return nil, gderrors.New(gderrors.ErrCodeUnknownNode, "edge %s-%s references unknown node", e.U, e.V)
		}
		f := geojson.NewFeature(orb.LineString{
			{seg.Start.X, seg.Start.Y},
			{seg.End.X, seg.End.Y},
		})
		f.Properties["type"] = featureEdge
		f.Properties["from"] = e.U
		f.Properties["to"] = e.V
		fc.Append(f)
	}
	for _, c := range FromCrossings(list) {
		var geometry orb.Geometry
		switch c.Kind {
		case CrossingPoint:
			geometry = orb.Point{c.Point.X, c.Point.Y}
		case CrossingLine:
			geometry = orb.LineString{{c.Line[0].X, c.Line[0].Y}, {c.Line[1].X, c.Line[1].Y}}
		}
		f := geojson.NewFeature(geometry)
		f.Properties["type"] = featureCrossing
		edges := make([]string, len(c.Edges))
		for i, e := range c.Edges {
			edges[i] = e.String()
		}
		f.Properties["edges"] = edges
		if len(c.Singletons) > 0 {
			f.Properties["singletons"] = c.Singletons
		}
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return data, nil
}

// UnmarshalGeoJSON decodes a FeatureCollection into a drawing.
//
// Point features are nodes; their ID is the "id" property, the feature ID,
// or a generated "n<i>". LineString features are edges between their first
// and last coordinates. When "from" and "to" are present they name the
// endpoints; otherwise each coordinate is matched to a node at exactly that
// location, adding one when there is none. Features of type "crossing"
// and other geometries are ignored.
func UnmarshalGeoJSON(data []byte) (*drawing.Drawing, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidFormat, err, "decode geojson")
	}

	b := &geoBuilder{d: drawing.New(nil), at: make(map[orb.Point]string)}
	for _, f := range fc.Features {
		if kind(f) == featureCrossing {
			continue
		}
		if p, ok := f.Geometry.(orb.Point); ok {
			if err := b.addNode(f, p); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range fc.Features {
		if kind(f) == featureCrossing {
			continue
		}
		if ls, ok := f.Geometry.(orb.LineString); ok {
			if err := b.addEdge(f, ls); err != nil {
				return nil, err
			}
		}
	}
	return b.d, nil
}

type geoBuilder struct {
	d    *drawing.Drawing
	at   map[orb.Point]string
	next int
}

func (b *geoBuilder) freshID() string {
	for {
		id := "n" + strconv.Itoa(b.next)
		b.next++
		if _, taken := b.d.Node(id); !taken {
			return id
		}
	}
}

func (b *geoBuilder) addNode(f *geojson.Feature, p orb.Point) error {
	id := property(f, "id")
	if id == "" && f.ID != nil {
		id = stringify(f.ID)
	}
	if id == "" {
		id = b.freshID()
	}
	n := drawing.Node{ID: id, X: p.X(), Y: p.Y()}
	if property(f, "kind") == KindCrossing {
		n.Kind = drawing.KindCrossing
	}
	if err := b.d.AddNode(n); err != nil {
		return gderrors.Wrap(gderrors.ErrCodeInvalidInput, err, "add node %s", id)
	}
	if _, ok := b.at[p]; !ok {
		b.at[p] = id
	}
	return nil
}

func (b *geoBuilder) endpoint(name string, f *geojson.Feature, p orb.Point) (string, error) {
	if id := property(f, name); id != "" {
		return id, nil
	}
	if id, ok := b.at[p]; ok {
		return id, nil
	}
	id := b.freshID()
	if err := b.d.AddNode(drawing.Node{ID: id, X: p.X(), Y: p.Y()}); err != nil {
		return "", gderrors.Wrap(gderrors.ErrCodeInvalidInput, err, "add node %s", id)
	}
	b.at[p] = id
	return id, nil
}

func (b *geoBuilder) addEdge(f *geojson.Feature, ls orb.LineString) error {
	if len(ls) < 2 {
		return gderrors.New(gderrors.ErrCodeInvalidInput, "edge feature needs at least 2 coordinates, got %d", len(ls))
	}
	u, err := b.endpoint("from", f, ls[0])
	if err != nil {
		return err
	}
	v, err := b.endpoint("to", f, ls[len(ls)-1])
	if err != nil {
		return err
	}
	if err := b.d.AddEdge(u, v); err != nil {
		return gderrors.Wrap(edgeCode(err), err, "add edge %s-%s", u, v)
	}
	return nil
}

func kind(f *geojson.Feature) string { return property(f, "type") }

// property returns a string or numeric property as a string.
func property(f *geojson.Feature, key string) string {
	v, ok := f.Properties[key]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
