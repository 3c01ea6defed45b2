package tiffio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLayout(t *testing.T) {
	tests := []struct {
		dirs, spp int
		want      Layout
	}{
		{1, 1, Layout{SingleChannel, 1}},
		{4, 1, Layout{MultiPage, 4}},
		{1, 3, Layout{Interleaved, 3}},
		{1, 120, Layout{Interleaved, 120}},
		{3, 3, Layout{SingleChannel, 1}},
		{2, 4, Layout{SingleChannel, 1}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyLayout(tc.dirs, tc.spp), "dirs=%d spp=%d", tc.dirs, tc.spp)
	}
}

func TestLayoutString(t *testing.T) {
	assert.Equal(t, "multipage(4)", Layout{MultiPage, 4}.String())
	assert.Equal(t, "interleaved(3)", Layout{Interleaved, 3}.String())
	assert.Equal(t, "single(1)", Layout{SingleChannel, 1}.String())
}
