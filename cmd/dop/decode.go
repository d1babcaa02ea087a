package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/types"
	"github.com/stewi1014/dop/validate"
)

func decodeCmd(opts *options) *cobra.Command {
	var (
		key     string
		isHex   bool
		check   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Decode messages and print their values",
		Long: `Decode reads a message from a file or stdin and prints its header, schema and value.

With --hex the input is hex text with one message per line, as written by dop sample.
With --validate values are checked against the [validate] table of the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}

			msgs, err := readMessages(cmd.InOrStdin(), name, isHex)
			if err != nil {
				return err
			}

			var v *validate.Validator
			if check {
				if v, err = opts.validator(); err != nil {
					return err
				}
			}

			failed := 0
			for i, msg := range msgs {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := decodeOne(cmd, opts.config, msg, key, v, verbose); err != nil {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%v of %v messages failed", failed, len(msgs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "mask key, overriding the config file")
	cmd.Flags().BoolVarP(&isHex, "hex", "x", false, "input is hex encoded, one message per line")
	cmd.Flags().BoolVar(&check, "validate", false, "check values against the [validate] rules")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the schema blob")

	return cmd
}

func decodeOne(cmd *cobra.Command, config *dop.Config, msg []byte, key string, v *validate.Validator, verbose bool) (err error) {
	out := cmd.OutOrStdout()

	d := dop.NewDecoder(msg, config)
	_, span := startSpan(cmd.Context(), "dop.decode", messageAttrs(d.Flags(), len(msg))...)
	defer func() { endSpan(span, err) }()

	fmt.Fprintf(out, "flags:  %v\n", d.Flags())
	if pid := d.PID(); pid != "" {
		fmt.Fprintf(out, "pid:    %q\n", pid)
	}

	value, err := d.Unpack(key)
	if s := d.Schema(); s != nil {
		fmt.Fprintf(out, "schema: %v\n", s)
		if verbose {
			fmt.Fprintf(out, "blob:   %v\n", hex.EncodeToString(s.Bytes()))
		}
	}
	if value != nil {
		fmt.Fprintf(out, "value:  %v\n", types.Sprint(value))
	}
	if err != nil {
		fmt.Fprintf(out, "error:  %v (code %d)\n", err, d.ErrorCode())
		return err
	}

	if v != nil {
		if err := v.Validate(d.Schema().Type(), value); err != nil {
			printInvalid(out, err)
			return err
		}
		fmt.Fprintln(out, "valid")
	}
	return nil
}

func printInvalid(out io.Writer, err error) {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		fmt.Fprintf(out, "invalid: %v\n", err)
		return
	}
	for _, e := range joined.Unwrap() {
		fmt.Fprintf(out, "invalid: %v\n", e)
	}
}
