// Package annot holds the value types a decoded perception stream is made
// of: annotations, samples, and frames. Nothing in this package mutates a
// value once it has been decoded; the matcher and evaluator only ever read
// from it.
package annot

import "github.com/silvaine/sprestream/internal/geom"

// Annotation is a single labeled detection within one sample.
type Annotation struct {
	Class string
	Score float64
	BBox  geom.Box
}

// ImageRef describes the image backing one sample.
type ImageRef struct {
	Path   string
	Width  int
	Height int
}

// Sample is one channel's view of a single frame.
type Sample struct {
	Channel     string
	Timestamp   string
	Image       ImageRef
	Annotations []Annotation
}

// Frame is one time-indexed point in a perception stream, carrying zero or
// more channel samples. Index is monotonically increasing across a stream
// but the matcher tracks frames by position, not by Index value.
type Frame struct {
	Index     int
	Timestamp string
	Samples   []Sample
}

// Select returns the sample for the given channel name, or the first sample
// when channel is "" or "first". It reports false if no such sample exists
// (including when the frame has no samples at all).
func (f Frame) Select(channel string) (Sample, bool) {
	if channel == "" || channel == "first" {
		if len(f.Samples) == 0 {
			return Sample{}, false
		}
		return f.Samples[0], true
	}

	for _, s := range f.Samples {
		if s.Channel == channel {
			return s, true
		}
	}
	return Sample{}, false
}
