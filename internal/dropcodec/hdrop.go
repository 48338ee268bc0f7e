// Package dropcodec converts between path lists and the payloads that carry
// them across a clipboard or drag-and-drop: the Windows CF_HDROP block, URL
// lists and newline-separated text.
package dropcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// HeaderSize is the size of the DROPFILES header preceding the file list.
const HeaderSize = 20

var (
	// ErrProtocol marks a payload that is not a well-formed file drop.
	ErrProtocol = errors.New("malformed drop payload")

	// ErrEmptyPayload is returned when a payload carries no file names.
	ErrEmptyPayload = fmt.Errorf("%w: no file names", ErrProtocol)

	// ErrInvalidPath rejects a path that cannot be represented in a drop.
	ErrInvalidPath = errors.New("invalid path for drop payload")
)

// Header is the DROPFILES structure: five little-endian 32-bit fields.
type Header struct {
	PFiles uint32 // offset of the file list from the start of the block
	PtX    int32
	PtY    int32
	FNC    uint32 // drop point is in the non-client area
	FWide  uint32 // 1: UTF-16LE names, 0: 8-bit names
}

// ParseHeader reads the header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d-byte header", ErrProtocol, len(b), HeaderSize)
	}
	return Header{
		PFiles: binary.LittleEndian.Uint32(b[0:]),
		PtX:    int32(binary.LittleEndian.Uint32(b[4:])),
		PtY:    int32(binary.LittleEndian.Uint32(b[8:])),
		FNC:    binary.LittleEndian.Uint32(b[12:]),
		FWide:  binary.LittleEndian.Uint32(b[16:]),
	}, nil
}

// AppendBinary appends the encoded header to b.
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, h.PFiles)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.PtX))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.PtY))
	b = binary.LittleEndian.AppendUint32(b, h.FNC)
	b = binary.LittleEndian.AppendUint32(b, h.FWide)
	return b, nil
}

func utf16le() encoding.Encoding {
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// EncodeHDROP builds a CF_HDROP block: a header with pFiles=20 and fWide=1,
// then every path as a NUL-terminated UTF-16LE string, then one more NUL.
func EncodeHDROP(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyPayload
	}
	for _, p := range paths {
		if p == "" || strings.ContainsRune(p, 0) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
		if !utf8.ValidString(p) {
			return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, p)
		}
	}

	body, err := utf16le().NewEncoder().String(strings.Join(paths, "\x00") + "\x00\x00")
	if err != nil {
		return nil, fmt.Errorf("encode file list: %w", err)
	}

	out := make([]byte, 0, HeaderSize+len(body))
	out, _ = Header{PFiles: HeaderSize, FWide: 1}.AppendBinary(out)
	return append(out, body...), nil
}

// DecodeHDROP extracts the paths from a CF_HDROP block. Fragments of one
// character or less are dropped. Nothing is returned for a malformed block.
func DecodeHDROP(b []byte) ([]string, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if h.PFiles < HeaderSize || int64(h.PFiles) >= int64(len(b)) {
		return nil, fmt.Errorf("%w: file list offset %d outside %d-byte payload", ErrProtocol, h.PFiles, len(b))
	}
	body := b[h.PFiles:]

	var dec *encoding.Decoder
	if h.FWide != 0 {
		// A trailing odd byte is not a UTF-16 unit.
		if len(body)%2 != 0 {
			body = body[:len(body)-1]
		}
		dec = utf16le().NewDecoder()
	} else {
		dec = charmap.Windows1252.NewDecoder()
	}
	text, err := dec.Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}

	var paths []string
	for _, frag := range strings.Split(string(text), "\x00") {
		if utf8.RuneCountInString(frag) <= 1 {
			continue
		}
		paths = append(paths, frag)
	}
	if len(paths) == 0 {
		return nil, ErrEmptyPayload
	}
	return paths, nil
}
