// Command dop inspects and generates dop messages.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/validate"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliConfig is the parts of the config file only the command uses.
type cliConfig struct {
	Validate map[string][]string `toml:"validate"`
}

// options are shared by every command.
type options struct {
	configPath string
	config     *dop.Config
	rules      map[string][]string
}

func (o *options) load(*cobra.Command, []string) error {
	if o.configPath == "" {
		o.config = new(dop.Config)
		return nil
	}

	config, err := dop.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	var extra cliConfig
	if _, err := toml.DecodeFile(o.configPath, &extra); err != nil {
		return fmt.Errorf("load dop config: %w", err)
	}

	o.config, o.rules = config, extra.Validate
	return nil
}

// validator returns the Validator for the [validate] table of the config file.
func (o *options) validator() (*validate.Validator, error) {
	return validate.ParseRules(o.rules)
}

func newRootCmd() *cobra.Command {
	opts := new(options)

	rootCmd := &cobra.Command{
		Use:   "dop",
		Short: "Inspect and generate dop messages",
		Long: `dop reads and writes messages in the dop wire format.

A config file can set the mask key, signing, identifiers and the expected schema:

  mask_key = "secret"
  sign = true
  auto_pid = true
  log_level = "debug"

  [schema]
  id = "int64"
  tags = "list<string>"

  [validate]
  id = ["range:1:"]
  "tags[]" = ["length:letter:1:16"]`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")

	rootCmd.AddCommand(
		decodeCmd(opts),
		schemaCmd(opts),
		sampleCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
