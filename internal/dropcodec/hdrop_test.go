package dropcodec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHDROP_ByteExact(t *testing.T) {
	got, err := EncodeHDROP([]string{`C:\a`, `D:\bc`})
	require.NoError(t, err)

	want := []byte{
		20, 0, 0, 0, // pFiles
		0, 0, 0, 0, // ptX
		0, 0, 0, 0, // ptY
		0, 0, 0, 0, // fNC
		1, 0, 0, 0, // fWide
		'C', 0, ':', 0, '\\', 0, 'a', 0, 0, 0,
		'D', 0, ':', 0, '\\', 0, 'b', 0, 'c', 0, 0, 0,
		0, 0,
	}
	assert.Equal(t, want, got)
}

func TestHDROP_RoundTrip(t *testing.T) {
	tests := [][]string{
		{`C:\Users\me\file.txt`},
		{`C:\a b\c.txt`, `\\server\share\d.doc`, `E:\Фото\лето.jpg`},
		{"/home/user/emoji-😀.png"},
	}
	for _, paths := range tests {
		b, err := EncodeHDROP(paths)
		require.NoError(t, err)

		h, err := ParseHeader(b)
		require.NoError(t, err)
		assert.Equal(t, Header{PFiles: 20, FWide: 1}, h)

		got, err := DecodeHDROP(b)
		require.NoError(t, err)
		assert.Equal(t, paths, got)
	}
}

func TestEncodeHDROP_Rejects(t *testing.T) {
	_, err := EncodeHDROP(nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = EncodeHDROP([]string{"a\x00b"})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = EncodeHDROP([]string{""})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = EncodeHDROP([]string{"bad\xff"})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func header(pFiles, wide uint32) []byte {
	b, _ := Header{PFiles: pFiles, FWide: wide}.AppendBinary(nil)
	return b
}

func TestDecodeHDROP_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short", make([]byte, 19)},
		{"header only", header(20, 1)},
		{"offset past end", append(header(40, 1), 'a', 0, 'b', 0)},
		{"offset equals length", append(header(24, 1), 'a', 0, 'b', 0)},
		{"offset inside header", append(header(4, 1), 'a', 0, 'b', 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHDROP(tt.in)
			assert.ErrorIs(t, err, ErrProtocol)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeHDROP_DropsShortFragments(t *testing.T) {
	b := header(20, 1)
	for _, s := range []string{"x", "", "ab"} {
		for _, r := range s {
			b = binary.LittleEndian.AppendUint16(b, uint16(r))
		}
		b = append(b, 0, 0)
	}
	b = append(b, 0, 0)

	got, err := DecodeHDROP(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, got)
}

func TestDecodeHDROP_OnlyShortFragments(t *testing.T) {
	b := append(header(20, 1), 'x', 0, 0, 0, 0, 0)
	_, err := DecodeHDROP(b)
	assert.ErrorIs(t, err, ErrEmptyPayload)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeHDROP_Narrow(t *testing.T) {
	b := append(header(20, 0), []byte("C:\\caf\xe9.txt\x00D:\\x\x00\x00")...)

	got, err := DecodeHDROP(b)
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\café.txt`, `D:\x`}, got)
}

func TestDecodeHDROP_CustomOffset(t *testing.T) {
	// Writers may place the list after extra header bytes.
	b := append(header(24, 1), 0xAA, 0xBB, 0xCC, 0xDD)
	b = append(b, 'h', 0, 'i', 0, 0, 0, 0, 0)

	got, err := DecodeHDROP(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, got)
}

func TestDecodeHDROP_OddBody(t *testing.T) {
	b := append(header(20, 1), 'o', 0, 'k', 0, 0, 0, 0, 0, 0x7f)

	got, err := DecodeHDROP(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}
