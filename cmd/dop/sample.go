package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/mock"
	"github.com/stewi1014/dop/types"
)

func sampleCmd(opts *options) *cobra.Command {
	var (
		typ    string
		count  int
		seed   int64
		maxLen int
		sign   bool
		mask   string
		pid    string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate messages holding random values",
		Long: `Sample generates messages with random values of a struct type and prints them as hex, one per line.

The type is given with --type, or taken from the [schema] table of the config file.
Output can be read back with dop decode --hex.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			t := opts.config.Schema
			if typ != "" {
				if t, err = types.Parse(typ); err != nil {
					return err
				}
			}
			if t == nil {
				return errors.New("no type; use --type or a [schema] table in the config file")
			}
			if t.Kind != types.KindStruct {
				return fmt.Errorf("%v is not a struct type", t)
			}
			if count < 0 {
				return fmt.Errorf("negative count %v", count)
			}

			config := *opts.config
			if cmd.Flags().Changed("sign") {
				config.Sign = sign
			}
			if cmd.Flags().Changed("mask") {
				config.MaskKey = mask
			}
			if cmd.Flags().Changed("pid") {
				config.PID = pid
			}

			ctx, span := startSpan(cmd.Context(), "dop.sample",
				attribute.String("dop.type", t.String()),
				attribute.Int("dop.count", count),
			)
			defer func() { endSpan(span, err) }()

			msgs := make([][]byte, count)
			group, ctx := errgroup.WithContext(ctx)
			group.SetLimit(runtime.GOMAXPROCS(0))
			for i := range msgs {
				i := i
				group.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}

					g := mock.New(seed + int64(i))
					g.MaxLen = maxLen

					msg, err := dop.MarshalStruct(t, g.Struct(t), &config)
					if err != nil {
						return fmt.Errorf("sample %v: %w", i, err)
					}
					msgs[i] = msg
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, msg := range msgs {
				fmt.Fprintln(out, hex.EncodeToString(msg))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "struct type of the values, like 'struct{id:int64,tags:list<string>}'")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of messages")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed; message i uses seed+i")
	cmd.Flags().IntVar(&maxLen, "max-len", mock.DefaultMaxLen, "maximum length of generated strings, lists and maps")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign messages, overriding the config file")
	cmd.Flags().StringVar(&mask, "mask", "", "mask key, overriding the config file")
	cmd.Flags().StringVar(&pid, "pid", "", "message identifier, overriding the config file")

	return cmd
}
