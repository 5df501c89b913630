package annot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameSelectDefaultsToFirstSample(t *testing.T) {
	assert := assert.New(t)

	f := Frame{Samples: []Sample{
		{Channel: "front"},
		{Channel: "rear"},
	}}

	for _, channel := range []string{"", "first"} {
		got, ok := f.Select(channel)
		assert.Truef(ok, "Select(%q) reported no sample", channel)
		assert.Equalf("front", got.Channel, "Select(%q)", channel)
	}
}

func TestFrameSelectByChannelName(t *testing.T) {
	assert := assert.New(t)

	f := Frame{Samples: []Sample{
		{Channel: "front"},
		{Channel: "rear"},
	}}

	got, ok := f.Select("rear")
	assert.True(ok)
	assert.Equal("rear", got.Channel)
}

func TestFrameSelectMissingChannel(t *testing.T) {
	f := Frame{Samples: []Sample{{Channel: "front"}}}

	_, ok := f.Select("rear")
	assert.False(t, ok)
}

func TestFrameSelectNoSamples(t *testing.T) {
	assert := assert.New(t)
	var f Frame

	_, ok := f.Select("")
	assert.False(ok)

	_, ok = f.Select("front")
	assert.False(ok)
}
