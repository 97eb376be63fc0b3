package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/binmap/pkg/schemafile"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [record]",
		Short: "Print the layout of declared record kinds",
		Long: `Print each field's offset, width and type, the total size and the
layout string of one record kind, or of every kind in the schema file.

Example:
  binmap describe --schema weather.yaml Weather`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kinds []*schemafile.Kind
			if len(args) == 1 {
				k, err := a.kind(args[0])
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			} else {
				f, err := a.loadSchema()
				if err != nil {
					return err
				}
				kinds = f.Kinds()
			}
			for i, k := range kinds {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				describe(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func describe(w io.Writer, k *schemafile.Kind) {
	s := k.Schema
	fmt.Fprintf(w, "%s  size=%d  layout=%s\n", s.Name(), s.Size(), s.Layout())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tWIDTH\tTYPE\tNAME\tFORMAT")
	for _, f := range s.Fields() {
		name := f.Name
		if f.IsPadding() {
			name = "(" + name + ")"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", f.Offset, f.Width, f.Type(), name, f.Format.Name())
	}
	for _, acc := range k.Accessors() {
		fmt.Fprintf(tw, "-\t-\t-\t%s\taccessor\n", acc.Name())
	}
	tw.Flush()
}
