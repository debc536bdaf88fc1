// Package client implements the façade of spec.md §4.6: encrypt/decrypt an
// image under a local ClientKey, and exchange one request/response pair
// with a session server per connection.
package client

import (
	"fmt"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/privateimg/fhimg/fhe"
	"github.com/privateimg/fhimg/imaging"
	"github.com/privateimg/fhimg/protocol"
)

// Client holds the address of a session server and the secret key used to
// encrypt outgoing images and decrypt incoming replies.
type Client struct {
	address string
	key     fhe.ClientKey
}

// New creates a Client that will dial address, using key for encryption
// and decryption.
func New(address string, key fhe.ClientKey) Client {
	return Client{address: address, key: key}
}

// EncryptImage encrypts img under the client's key.
func (c Client) EncryptImage(img imaging.PlaintextImage) (imaging.EncryptedImage, error) {
	return imaging.EncryptImage(img, c.key)
}

// DecryptImage decrypts img under the client's key.
func (c Client) DecryptImage(img imaging.EncryptedImage) (imaging.PlaintextImage, error) {
	return imaging.DecryptImage(img, c.key)
}

// SendMessage opens a fresh TCP connection to the client's address, writes
// msg, and — if msg.ExpectsAnswer() — reads and returns one reply. The
// connection is always closed before returning, matching §4.5's one
// message per connection model.
func (c Client) SendMessage(msg protocol.Message) (*protocol.Message, error) {
	conn, err := net.Dial("tcp", c.address)
	if err != nil {
		return nil, fmt.Errorf("client: connecting to %s: %w", c.address, err)
	}
	defer conn.Close()

	log.Info().Str("kind", msg.Kind.String()).Str("address", c.address).Msg("sending message")
	if err := protocol.Write(conn, msg); err != nil {
		return nil, fmt.Errorf("client: sending message: %w", err)
	}

	if !msg.ExpectsAnswer() {
		return nil, nil
	}

	reply, err := protocol.Read(conn)
	if err != nil {
		return nil, fmt.Errorf("client: reading reply: %w", err)
	}
	log.Info().Str("kind", reply.Kind.String()).Msg("received reply")

	return &reply, nil
}
