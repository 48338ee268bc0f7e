package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bamsammich/twinpane/internal/dropcodec"
)

func newClipCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Encode and decode clipboard and drag-and-drop file lists",
	}
	cmd.AddCommand(newClipEncodeCmd(g), newClipDecodeCmd(g))
	return cmd
}

func codecFor(format string) (dropcodec.Codec, error) {
	if format == "" {
		return dropcodec.Native(), nil
	}
	c := dropcodec.ForFormat(format)
	if c == nil {
		return nil, fmt.Errorf("unknown format %q (use hdrop or text)", format)
	}
	return c, nil
}

func newClipEncodeCmd(g *globals) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "encode [flags] <path>...",
		Short: "Write a clipboard block listing the given paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFor(format)
			if err != nil {
				return err
			}
			paths := make([]string, len(args))
			for i, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return err
				}
				paths[i] = abs
			}
			b, err := codec.Encode(paths)
			if err != nil {
				return fmt.Errorf("encode %s: %w", codec.Format(), err)
			}
			g.logger.Debug("encoded", "format", codec.Format(), "paths", len(paths), "bytes", len(b))

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return os.WriteFile(output, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "hdrop or text (default: native for this platform)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to FILE instead of stdout")
	return cmd
}

func newClipDecodeCmd(g *globals) *cobra.Command {
	var (
		format string
		images bool
	)
	cmd := &cobra.Command{
		Use:   "decode [flags] [file]",
		Short: "Print the paths in a clipboard block, one per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFor(format)
			if err != nil {
				return err
			}
			var b []byte
			if len(args) == 0 || args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			payload, err := codec.Decode(b)
			if err != nil {
				return fmt.Errorf("decode %s: %w", codec.Format(), err)
			}
			if images {
				payload = payload.WithExtensions(dropcodec.ImageExtensions...)
			}
			g.logger.Debug("decoded", "format", codec.Format(), "origin", payload.Origin.String(), "paths", len(payload.Paths))

			var out bytes.Buffer
			for _, p := range payload.Paths {
				out.WriteString(p)
				out.WriteByte('\n')
			}
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "hdrop or text (default: native for this platform)")
	cmd.Flags().BoolVar(&images, "images", false, "keep only image files")
	return cmd
}
