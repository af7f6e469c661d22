// Package configcmder provides the config command for managing persistent
// callmem configuration stored in the .callmem/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/callmem/pkg/config"
)

const configLongDesc string = `Manage persistent callmem configuration.

Configuration is stored as config.toml in the .callmem/ directory and provides
default values for the serve command. Environment variables (CALLMEM_*) and
CLI flags take precedence over config file values.

Keys use dotted notation matching the TOML section structure, for example:
  api.listen, elevenlabs.hmac_key, memory.provider, memory.search_limit,
  mem0.api_key, archive.provider, archive.bucket, eventstream.brokers

Use subcommands to manage configuration values:
  callmem config init                  Write a config file with defaults
  callmem config set <key> <value>     Set a configuration value
  callmem config get <key>             Get a configuration value
  callmem config list                  List all configuration values

Examples:
  callmem config set memory.provider mem0
  callmem config set archive.bucket call-archive
  callmem config get memory.provider
  callmem config list`

const configShortDesc string = "Manage persistent callmem configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(w io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "Using config file: %s\n\n", target)
	} else {
		fmt.Fprint(w, "No config file found. Using default config.\n\n")
	}
}
