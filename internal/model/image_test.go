package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageListRoundTrip(t *testing.T) {
	in := ImageList{
		{URL: "data:image/png;base64,aaaa", Filename: "one.png", Mimetype: "image/png", Size: 4},
		{URL: "data:image/jpeg;base64,bbbb", Filename: "two.jpg", Mimetype: "image/jpeg", Size: 4},
	}

	stored, err := in.Value()
	require.NoError(t, err)

	var out ImageList
	require.NoError(t, out.Scan(stored))
	assert.Equal(t, in, out)
}

func TestImageListEmptyAndNull(t *testing.T) {
	stored, err := ImageList{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)

	var out ImageList
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)

	require.NoError(t, out.Scan(""))
	assert.Empty(t, out)
}
