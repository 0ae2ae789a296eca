package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
)

// =============================================================================
// Drawing Serialization API
// =============================================================================

// MarshalDrawing converts a drawing to indented JSON bytes.
func MarshalDrawing(d *drawing.Drawing) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDrawingTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDrawing decodes JSON bytes into a drawing.
func UnmarshalDrawing(data []byte) (*drawing.Drawing, error) {
	return readDrawingFrom(bytes.NewReader(data))
}

// WriteDrawingFile writes a drawing to a JSON or GeoJSON file, chosen by
// the file extension.
func WriteDrawingFile(d *drawing.Drawing, path string) error {
	var (
		data []byte
		err  error
	)
	switch FormatOf(path) {
	case "geojson":
		data, err = MarshalGeoJSON(d, nil)
	default:
		data, err = MarshalDrawing(d)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteDrawing writes a drawing as JSON to an io.Writer.
func WriteDrawing(d *drawing.Drawing, w io.Writer) error {
	return writeDrawingTo(d, w)
}

// ReadDrawing decodes a JSON drawing from an io.Reader.
func ReadDrawing(r io.Reader) (*drawing.Drawing, error) {
	return readDrawingFrom(r)
}

// ReadFile reads a drawing from a file. Files ending in .geojson are read
// as GeoJSON, everything else as the native JSON format.
func ReadFile(path string) (*drawing.Drawing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gderrors.Wrap(gderrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var d *drawing.Drawing
	switch FormatOf(path) {
	case "geojson":
		d, err = UnmarshalGeoJSON(data)
	default:
		d, err = UnmarshalDrawing(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// FormatOf returns "geojson" for .geojson files and "json" otherwise.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".geojson") {
		return "geojson"
	}
	return "json"
}

// Hash returns the SHA-256 of the canonical JSON encoding of d. Equal
// drawings hash equally regardless of how they were read.
func Hash(d *drawing.Drawing) (string, error) {
	data, err := json.Marshal(FromDrawing(d))
	if err != nil {
		return "", fmt.Errorf("encode drawing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteReport writes a report as indented JSON.
func WriteReport(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDrawingTo(d *drawing.Drawing, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDrawing(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDrawingFrom(r io.Reader) (*drawing.Drawing, error) {
	var data Drawing
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidFormat, err, "decode drawing")
	}
	return ToDrawing(data)
}
