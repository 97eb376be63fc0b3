package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rawbytedev/binmap/pkg/framestream"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		record, out string
		sets        []string
		crc, zstd   bool
	)
	c := &cobra.Command{
		Use:   "encode",
		Short: "Encode one record from field assignments",
		Long: `Build one record from name=value assignments, which may name data
fields or enum accessors, and print it as hex or append it as a frame to a
stream file.

Example:
  binmap encode --schema weather.yaml --record Weather --set temp=10 --set wind_direction=South
  binmap encode --schema weather.yaml --record Weather --set temp=10 --out frames.bin --crc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.kind(record)
			if err != nil {
				return err
			}
			r := k.Schema.New()
			for _, arg := range sets {
				name, v, err := parseAssignment(k, arg)
				if err != nil {
					return err
				}
				if err := k.Set(r, name, v); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("crc") {
				crc = a.cfg.Stream.CRC
			}
			if !cmd.Flags().Changed("zstd") {
				zstd = a.cfg.Stream.Compress
			}
			var opts []framestream.Option
			if crc {
				opts = append(opts, framestream.WithCRC())
			}
			if zstd {
				opts = append(opts, framestream.WithCompression())
			}
			var buf bytes.Buffer
			w, err := framestream.NewWriter(&buf, k.Schema, opts...)
			if err != nil {
				return err
			}
			if err := w.Write(r); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf.Bytes()))
				return nil
			}
			f, err := os.OpenFile(out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return errors.Wrap(err, "open stream")
			}
			if _, err := f.Write(buf.Bytes()); err != nil {
				f.Close()
				return errors.Wrap(err, "append frame")
			}
			a.log.Info("appended frame", "record", k.Name(), "path", out, "bytes", buf.Len())
			return errors.Wrap(f.Close(), "close stream")
		},
	}
	c.Flags().StringVarP(&record, "record", "r", "", "record kind to encode")
	c.Flags().StringArrayVar(&sets, "set", nil, "field or accessor assignment name=value (repeatable)")
	c.Flags().StringVarP(&out, "out", "o", "", "append the frame to this stream file instead of printing hex")
	c.Flags().BoolVar(&crc, "crc", false, "append a CRC32 trailer")
	c.Flags().BoolVar(&zstd, "zstd", false, "zstd compress the frame")
	_ = c.MarkFlagRequired("record")
	return c
}
