package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/privateimg/fhimg/client"
	"github.com/privateimg/fhimg/imaging"
	"github.com/privateimg/fhimg/keys"
	"github.com/privateimg/fhimg/protocol"
	"github.com/privateimg/fhimg/rescale"
)

// newClient loads or generates the client's half of the key pair and
// returns a Client bound to cfg.address (§4.7's load_or_generate).
func newClient(cfg *config) (client.Client, error) {
	ck, _, err := keys.LoadOrGenerate(cfg.clientPath, cfg.serverPath)
	if err != nil {
		return client.Client{}, fmt.Errorf("loading keys: %w", err)
	}
	return client.New(cfg.address, ck), nil
}

// saveResult decrypts an Image reply and writes it to cfg.outputDir/name,
// or reports the server's NoImage reply as an error.
func saveResult(cfg *config, c client.Client, reply *protocol.Message, name string) error {
	if reply == nil {
		return fmt.Errorf("expected a reply, got none")
	}
	if reply.Kind == protocol.NoImage {
		return fmt.Errorf("server has no image stored, or the operation is undefined for it")
	}

	plain, err := c.DecryptImage(reply.Image)
	if err != nil {
		return fmt.Errorf("decrypting result: %w", err)
	}

	if err := os.MkdirAll(cfg.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", cfg.outputDir, err)
	}

	path := filepath.Join(cfg.outputDir, name)
	if err := imaging.Save(path, plain); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}

func newPingCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Ping the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cfg)
			if err != nil {
				return err
			}
			_, err = c.SendMessage(protocol.NewPing())
			return err
		},
	}
}

func newShutdownCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Tell the server to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cfg)
			if err != nil {
				return err
			}
			_, err = c.SendMessage(protocol.NewShutdown())
			return err
		},
	}
}

func newLoadCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Send an image to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cfg)
			if err != nil {
				return err
			}

			plain, err := imaging.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}

			enc, err := c.EncryptImage(plain)
			if err != nil {
				return fmt.Errorf("encrypting image: %w", err)
			}

			_, err = c.SendMessage(protocol.NewImage(enc))
			return err
		},
	}
}

func newRescaleCmd(cfg *config) *cobra.Command {
	var bilinear, nearest bool

	cmd := &cobra.Command{
		Use:   "rescale (--bilinear|--nearest) <width> <height>",
		Short: "Rescale the image stored on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bilinear == nearest {
				return fmt.Errorf("exactly one of --bilinear or --nearest is required")
			}
			kind := rescale.Nearest
			kindName := "nearest"
			if bilinear {
				kind = rescale.Bilinear
				kindName = "bilinear"
			}

			width, err := strconv.ParseUint(args[0], 10, 16)
			if err != nil {
				return fmt.Errorf("parsing width: %w", err)
			}
			height, err := strconv.ParseUint(args[1], 10, 16)
			if err != nil {
				return fmt.Errorf("parsing height: %w", err)
			}

			c, err := newClient(cfg)
			if err != nil {
				return err
			}

			size := imaging.Size{Width: uint16(width), Height: uint16(height)}
			reply, err := c.SendMessage(protocol.NewRescale(size, kind))
			if err != nil {
				return err
			}

			name := fmt.Sprintf("rescaled-%s-%dx%d.png", kindName, width, height)
			return saveResult(cfg, c, reply, name)
		},
	}
	cmd.Flags().BoolVar(&bilinear, "bilinear", false, "use bilinear interpolation")
	cmd.Flags().BoolVar(&nearest, "nearest", false, "use nearest-neighbour interpolation")

	return cmd
}

func newInvertCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "invert",
		Short: "Invert the image stored on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cfg)
			if err != nil {
				return err
			}

			reply, err := c.SendMessage(protocol.NewInvert())
			if err != nil {
				return err
			}

			return saveResult(cfg, c, reply, "inverted.png")
		},
	}
}

func newGrayscaleCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "grayscale",
		Short: "Turn the image stored on the server into grayscale",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cfg)
			if err != nil {
				return err
			}

			reply, err := c.SendMessage(protocol.NewGrayscale())
			if err != nil {
				return err
			}

			return saveResult(cfg, c, reply, "grayscale.png")
		},
	}
}
