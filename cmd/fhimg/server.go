package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/privateimg/fhimg/keys"
	"github.com/privateimg/fhimg/session"
)

func newServerCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sk, err := keys.LoadOrGenerate(cfg.clientPath, cfg.serverPath)
			if err != nil {
				return fmt.Errorf("loading keys: %w", err)
			}

			ln, err := net.Listen("tcp", cfg.address)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.address, err)
			}
			defer ln.Close()

			return session.New(sk).Serve(context.Background(), ln)
		},
	}
}
