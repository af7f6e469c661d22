// Package callmemcmder
package callmemcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/callmem/cmd/callmem/config"
	searchcmder "github.com/papercomputeco/callmem/cmd/callmem/search"
	servecmder "github.com/papercomputeco/callmem/cmd/callmem/serve"
	versioncmder "github.com/papercomputeco/callmem/cmd/version"
)

const callmemLongDesc string = `callmem gives voice agents a memory of their phone callers.

It receives ElevenLabs post-call webhooks, stores call summaries and
transcripts per caller, and personalizes the next call at start.

Run the webhook server using:
  callmem serve

Query a running server using:
  callmem search "address" --caller +16129782029`

const callmemShortDesc string = "callmem - caller memory for voice agents"

func NewCallmemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "callmem",
		Short:        callmemShortDesc,
		Long:         callmemLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .callmem/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
