package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rawbytedev/binmap"
	"github.com/rawbytedev/binmap/pkg/framestream"
	"github.com/rawbytedev/binmap/pkg/schemafile"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		record, hexIn, in string
		crc, asJSON       bool
	)
	c := &cobra.Command{
		Use:   "decode",
		Short: "Decode records from hex or a frame stream",
		Long: `Decode one record given as hex, or every frame of a stream read from a
file or stdin. Compressed streams are detected automatically.

Example:
  binmap decode --schema weather.yaml --record Weather --hex 0a02
  binmap decode --schema weather.yaml --record Weather --in frames.bin --crc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.kind(record)
			if err != nil {
				return err
			}
			show := printText
			if asJSON {
				show = printJSON
			}
			out := cmd.OutOrStdout()
			if hexIn != "" {
				buf, err := hex.DecodeString(strings.TrimPrefix(hexIn, "0x"))
				if err != nil {
					return errors.Wrap(err, "invalid --hex")
				}
				r, err := k.Schema.FromBytes(buf)
				if err != nil {
					return err
				}
				return show(out, k, r)
			}
			src := cmd.InOrStdin()
			if in != "" && in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return errors.Wrap(err, "open stream")
				}
				defer f.Close()
				src = f
			}
			if !cmd.Flags().Changed("crc") {
				crc = a.cfg.Stream.CRC
			}
			return decodeStream(a, src, k, crc, asJSON, show, out)
		},
	}
	c.Flags().StringVarP(&record, "record", "r", "", "record kind to decode")
	c.Flags().StringVar(&hexIn, "hex", "", "one record as hex")
	c.Flags().StringVarP(&in, "in", "i", "", "frame stream file (default stdin)")
	c.Flags().BoolVar(&crc, "crc", false, "frames carry a CRC32 trailer")
	c.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per record")
	_ = c.MarkFlagRequired("record")
	return c
}

type printFunc func(io.Writer, *schemafile.Kind, *binmap.Record) error

func decodeStream(a *app, src io.Reader, k *schemafile.Kind, crc, asJSON bool, show printFunc, out io.Writer) error {
	var opts []framestream.Option
	if crc {
		opts = append(opts, framestream.WithCRC())
	}
	rd, err := framestream.NewReader(src, k.Schema, opts...)
	if err != nil {
		return err
	}
	defer rd.Close()
	a.log.Debug("reading frames", "record", k.Name(), "crc", crc, "compressed", rd.Compressed())
	for {
		r, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "after %d frames", rd.Frames())
		}
		if rd.Frames() > 1 && !asJSON {
			fmt.Fprintln(out)
		}
		if err := show(out, k, r); err != nil {
			return err
		}
	}
	a.log.Info("decoded stream", "record", k.Name(), "frames", rd.Frames())
	return nil
}
