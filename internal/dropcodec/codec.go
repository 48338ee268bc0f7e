package dropcodec

import "strings"

// Codec converts path lists to and from one clipboard representation.
type Codec interface {
	Format() string
	Encode(paths []string) ([]byte, error)
	Decode(b []byte) (Payload, error)
}

// HDROPCodec handles the Windows CF_HDROP block.
type HDROPCodec struct{}

func (HDROPCodec) Format() string { return "CF_HDROP" }

func (HDROPCodec) Encode(paths []string) ([]byte, error) { return EncodeHDROP(paths) }

func (HDROPCodec) Decode(b []byte) (Payload, error) {
	paths, err := DecodeHDROP(b)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Paths: paths, Origin: ExternalURLs}, nil
}

// TextCodec handles newline-separated path lists. Exists filters decoded
// paths; nil checks the local file system.
type TextCodec struct {
	Exists func(string) bool
}

func (TextCodec) Format() string { return "text/plain" }

func (TextCodec) Encode(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyPayload
	}
	for _, p := range paths {
		if strings.ContainsAny(p, "\r\n") {
			return nil, ErrInvalidPath
		}
	}
	return []byte(strings.Join(paths, "\n") + "\n"), nil
}

func (c TextCodec) Decode(b []byte) (Payload, error) {
	p := FromText(string(b), c.Exists)
	if p.Empty() {
		return p, ErrEmptyPayload
	}
	return p, nil
}

// ForFormat returns the codec for a format name, or nil.
func ForFormat(name string) Codec {
	switch strings.ToLower(name) {
	case "cf_hdrop", "hdrop":
		return HDROPCodec{}
	case "text", "text/plain":
		return TextCodec{}
	default:
		return nil
	}
}
