package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/privateimg/fhimg/internal/logging"
)

const defaultAddress = "127.0.0.1:34347"

// config collects the values the leaf commands need: address comes from the
// root command's persistent --address flag, the key and output paths are
// fixed when the root command is built.
type config struct {
	address    string
	clientPath string
	serverPath string
	outputDir  string
}

func newRootCmd() *cobra.Command {
	cfg := &config{
		clientPath: filepath.Join("data", "keys", "client"),
		serverPath: filepath.Join("data", "keys", "server"),
		outputDir:  filepath.Join("data", "output"),
	}

	root := &cobra.Command{
		Use:   "fhimg",
		Short: "Homomorphic image-operation client and server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.address, "address", defaultAddress, "server address")

	root.AddCommand(
		newServerCmd(cfg),
		newPingCmd(cfg),
		newShutdownCmd(cfg),
		newLoadCmd(cfg),
		newRescaleCmd(cfg),
		newInvertCmd(cfg),
		newGrayscaleCmd(cfg),
	)

	return root
}
