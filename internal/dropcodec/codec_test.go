package dropcodec

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecs_RoundTrip(t *testing.T) {
	paths := []string{"/srv/one.txt", "/srv/two.txt"}
	always := func(string) bool { return true }

	for _, c := range []Codec{HDROPCodec{}, TextCodec{Exists: always}} {
		t.Run(c.Format(), func(t *testing.T) {
			b, err := c.Encode(paths)
			require.NoError(t, err)

			p, err := c.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, paths, p.Paths)

			_, err = c.Encode(nil)
			assert.ErrorIs(t, err, ErrEmptyPayload)
		})
	}
}

func TestTextCodec(t *testing.T) {
	b, err := TextCodec{}.Encode([]string{"/a", "/b"})
	require.NoError(t, err)
	assert.Equal(t, "/a\n/b\n", string(b))

	_, err = TextCodec{}.Encode([]string{"bad\nname"})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = TextCodec{Exists: func(string) bool { return false }}.Decode(b)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, HDROPCodec{}, ForFormat("CF_HDROP"))
	assert.IsType(t, TextCodec{}, ForFormat("text"))
	assert.Nil(t, ForFormat("image/png"))
}

func TestNative(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "CF_HDROP", Native().Format())
		return
	}
	assert.Equal(t, "text/plain", Native().Format())
}
