// Package streamio decodes the on-disk perception-stream JSON schema into
// the annotation model, one frame at a time. Decoding stays on the
// standard library's encoding/json: the schema is small and fixed, so a
// generic/schemaless JSON library buys nothing a couple of struct tags
// don't already give us.
package streamio

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/silvaine/sprestream/internal/annot"
	"github.com/silvaine/sprestream/internal/geom"
)

// SchemaError reports a malformed stream. It is fatal for the offending
// stream only; sibling streams continue (spec.md §7).
type SchemaError struct {
	Stream string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stream, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

type jsonStreamHeader struct {
	Version string `json:"version"`
}

type jsonFrame struct {
	Index     int          `json:"index"`
	Timestamp string       `json:"timestamp"`
	Samples   []jsonSample `json:"samples"`
}

type jsonSample struct {
	Channel     string           `json:"channel"`
	Timestamp   string           `json:"timestamp"`
	Image       jsonImage        `json:"image"`
	Annotations []jsonAnnotation `json:"annotations"`
}

type jsonImage struct {
	Path       string         `json:"path"`
	Dimensions jsonDimensions `json:"dimensions"`
}

type jsonDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type jsonAnnotation struct {
	Class string   `json:"class"`
	Score float64  `json:"score"`
	BBox  jsonBBox `json:"bbox"`
}

type jsonBBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FrameSource pulls frames one at a time from a stream's top-level JSON
// object, never holding the whole "frames" array in memory at once.
type FrameSource struct {
	dec     *json.Decoder
	baseDir string
	name    string
}

// Open begins decoding name from r. baseDir is where relative image paths
// are resolved against (the JSON file's directory, or the current working
// directory for standard input, per spec.md §6).
func Open(name string, r io.Reader, baseDir string) (*FrameSource, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, &SchemaError{Stream: name, Err: err}
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &SchemaError{Stream: name, Err: err}
		}
		key, _ := keyTok.(string)

		switch key {
		case "frames":
			if err := expectDelim(dec, '['); err != nil {
				return nil, &SchemaError{Stream: name, Err: err}
			}
			return &FrameSource{dec: dec, baseDir: baseDir, name: name}, nil
		default:
			var discard json.RawMessage
			if err := dec.Decode(&discard); err != nil {
				return nil, &SchemaError{Stream: name, Err: err}
			}
		}
	}

	return nil, &SchemaError{Stream: name, Err: fmt.Errorf("missing required field %q", "frames")}
}

// Next decodes the next frame, satisfying match.FrameSource.
func (s *FrameSource) Next() (annot.Frame, bool, error) {
	if !s.dec.More() {
		return annot.Frame{}, false, nil
	}

	var raw jsonFrame
	if err := s.dec.Decode(&raw); err != nil {
		return annot.Frame{}, false, &SchemaError{Stream: s.name, Err: err}
	}

	frame, err := s.convertFrame(raw)
	if err != nil {
		return annot.Frame{}, false, &SchemaError{Stream: s.name, Err: err}
	}
	return frame, true, nil
}

func (s *FrameSource) convertFrame(raw jsonFrame) (annot.Frame, error) {
	if raw.Index < 0 {
		return annot.Frame{}, fmt.Errorf("frame has negative index %d", raw.Index)
	}

	samples := make([]annot.Sample, len(raw.Samples))
	for i, rs := range raw.Samples {
		sample, err := s.convertSample(rs)
		if err != nil {
			return annot.Frame{}, fmt.Errorf("frame %d: %w", raw.Index, err)
		}
		samples[i] = sample
	}

	return annot.Frame{Index: raw.Index, Timestamp: raw.Timestamp, Samples: samples}, nil
}

func (s *FrameSource) convertSample(raw jsonSample) (annot.Sample, error) {
	anns := make([]annot.Annotation, len(raw.Annotations))
	for i, ra := range raw.Annotations {
		if ra.Class == "" {
			return annot.Sample{}, fmt.Errorf("annotation missing required field %q", "class")
		}
		if ra.BBox.W < 0 || ra.BBox.H < 0 {
			return annot.Sample{}, fmt.Errorf("annotation %q has a negative box dimension", ra.Class)
		}
		anns[i] = annot.Annotation{
			Class: ra.Class,
			Score: ra.Score,
			BBox:  bbox(ra.BBox),
		}
	}

	return annot.Sample{
		Channel:   raw.Channel,
		Timestamp: raw.Timestamp,
		Image: annot.ImageRef{
			Path:   s.resolvePath(raw.Image.Path),
			Width:  raw.Image.Dimensions.Width,
			Height: raw.Image.Dimensions.Height,
		},
		Annotations: anns,
	}, nil
}

func (s *FrameSource) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

func bbox(b jsonBBox) geom.Box {
	return geom.Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	got, ok := tok.(json.Delim)
	if !ok || got != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
