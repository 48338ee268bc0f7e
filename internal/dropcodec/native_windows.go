//go:build windows

package dropcodec

// Native returns the codec of the platform clipboard.
func Native() Codec { return HDROPCodec{} }
