// Package graph provides serialization types for embedded graphs and
// crossing reports.
//
// This package defines the canonical wire format for gdcross data, used for
// JSON files, API requests and responses, the result cache and the report
// store.
//
// # Architecture
//
// The package sits at the serialization boundary between the internal
// representations and external formats:
//
//   - [Drawing], [Crossing], [Report]: Serialization types (this package)
//   - pkg/core/drawing.Drawing: Internal graph with positions
//   - pkg/core/crossings.Crossing: Internal crossing record
//
// Use [FromDrawing]/[ToDrawing] and [FromCrossings]/[ToCrossings] to convert
// between them.
//
// # Drawing Serialization
//
// Drawings use a node-link JSON format with coordinates:
//
//	{
//	  "nodes": [{"id": "a", "x": 0, "y": 0}, {"id": "b", "x": 1, "y": 1}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Nodes inserted by planarization carry "kind": "crossing".
//
// Common operations:
//
//	d, _ := graph.ReadFile("drawing.json")      // File → Drawing (by extension)
//	graph.WriteDrawingFile(d, "output.json")    // Drawing → File
//	data, _ := graph.MarshalDrawing(d)          // Drawing → []byte
//
// # GeoJSON
//
// [MarshalGeoJSON] and [UnmarshalGeoJSON] map nodes to Point features and
// edges to LineString features, so drawings can be inspected in any GIS
// tool. Crossings are exported as additional features with
// "type": "crossing". Files ending in .geojson are read with
// [UnmarshalGeoJSON] by [ReadFile].
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package graph
