// Package tricklecmder
package tricklecmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/trickle/cmd/trickle/auth"
	chatcmder "github.com/papercomputeco/trickle/cmd/trickle/chat"
	configcmder "github.com/papercomputeco/trickle/cmd/trickle/config"
	versioncmder "github.com/papercomputeco/trickle/cmd/version"
)

const trickleLongDesc string = `Trickle streams chat completions from OpenAI-compatible APIs to your
terminal as they are generated.

  trickle chat [prompt]     Stream a reply
  trickle auth openai       Store an API key
  trickle config list       Show configuration`

const trickleShortDesc string = "Trickle - streaming chat completions"

func NewTrickleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trickle",
		Short: trickleShortDesc,
		Long:  trickleLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .trickle/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
