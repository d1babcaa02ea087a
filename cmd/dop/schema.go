package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/schema"
	"github.com/stewi1014/dop/types"
)

func schemaCmd(opts *options) *cobra.Command {
	var (
		typ   string
		key   string
		isHex bool
	)

	cmd := &cobra.Command{
		Use:   "schema [file|-]",
		Short: "Print the schema of messages, or the schema blob of a type",
		Long: `Schema prints the embedded schema of each message read from a file or stdin.

With --type it instead prints the hex schema blob for a struct type, like
  dop schema --type 'struct{id:int64,tags:list<string>}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if typ != "" {
				t, err := types.Parse(typ)
				if err != nil {
					return err
				}
				s, err := schema.FromType(t, opts.config.MaxDepth)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, hex.EncodeToString(s.Bytes()))
				return nil
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}
			msgs, err := readMessages(cmd.InOrStdin(), name, isHex)
			if err != nil {
				return err
			}

			for _, msg := range msgs {
				d := dop.NewDecoder(msg, opts.config)
				_, span := startSpan(cmd.Context(), "dop.schema", messageAttrs(d.Flags(), len(msg))...)
				_, err := d.Unpack(key)
				endSpan(span, err)

				if d.Schema() == nil {
					return fmt.Errorf("no schema: %w", err)
				}
				fmt.Fprintln(out, d.Schema())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "struct type to print the schema blob of")
	cmd.Flags().StringVarP(&key, "key", "k", "", "mask key, overriding the config file")
	cmd.Flags().BoolVarP(&isHex, "hex", "x", false, "input is hex encoded, one message per line")

	return cmd
}
