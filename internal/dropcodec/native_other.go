//go:build !windows

package dropcodec

// Native returns the codec of the platform clipboard. Without CF_HDROP the
// clipboard carries paths as plain text.
func Native() Codec { return TextCodec{} }
