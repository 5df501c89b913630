package streamio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleStream = `{
  "version": "1.0.0",
  "frames": [
    { "index": 0, "timestamp": "t0", "samples": [
      { "channel": "cam::back", "timestamp": "t0",
        "image": { "path": "f0.jpg", "dimensions": { "width": 640, "height": 480 } },
        "annotations": [
          { "class": "bus", "score": 0.9, "bbox": { "x": 1, "y": 2, "w": 3, "h": 4 } }
        ] } ] },
    { "index": 1, "timestamp": "t1", "samples": [] }
  ]
}`

func TestFrameSourceDecodesFramesInOrder(t *testing.T) {
	assert := assert.New(t)

	src, err := Open("test", strings.NewReader(sampleStream), "/base")
	assert.NoError(err)

	f0, ok, err := src.Next()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(0, f0.Index)
	if assert.Len(f0.Samples, 1) {
		ann := f0.Samples[0].Annotations[0]
		assert.Equal("bus", ann.Class)
		assert.Equal(float64(3), ann.BBox.W)
		assert.Equal("/base/f0.jpg", f0.Samples[0].Image.Path)
	}

	f1, ok, err := src.Next()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(1, f1.Index)
	assert.Empty(f1.Samples)

	_, ok, err = src.Next()
	assert.NoError(err)
	assert.False(ok)
}

func TestFrameSourceRejectsMissingFramesField(t *testing.T) {
	assert := assert.New(t)

	_, err := Open("test", strings.NewReader(`{"version":"1.0.0"}`), "/base")
	assert.Error(err)
	assert.IsType(&SchemaError{}, err)
}

func TestFrameSourceRejectsNegativeBoxDimension(t *testing.T) {
	bad := `{"version":"1.0.0","frames":[
      { "index": 0, "timestamp": "t0", "samples": [
        { "channel": "c", "timestamp": "t0",
          "image": {"path": "", "dimensions": {"width":0,"height":0}},
          "annotations": [
            { "class": "bus", "score": 1, "bbox": {"x":0,"y":0,"w":-1,"h":1} }
          ] } ] } ]}`

	src, err := Open("test", strings.NewReader(bad), "/base")
	assert.NoError(t, err)
	_, _, err = src.Next()
	assert.Error(t, err)
}
