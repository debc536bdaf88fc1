// Package session implements the stateful image session server of
// spec.md §4.5: one ServerKey, at most one stored EncryptedImage, and a
// request dispatch loop over a single TCP listener.
package session

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/privateimg/fhimg/fhe"
	"github.com/privateimg/fhimg/imaging"
	"github.com/privateimg/fhimg/pixelops"
	"github.com/privateimg/fhimg/protocol"
	"github.com/privateimg/fhimg/rescale"
)

// Server holds the single session's mutable state: the ServerKey bound
// Evaluator and the at-most-one stored EncryptedImage (§3's ServerSession).
type Server struct {
	eval   fhe.Evaluator
	stored *imaging.EncryptedImage
}

// New creates a Server bound to key with no image stored.
func New(key fhe.ServerKey) *Server {
	return &Server{eval: fhe.NewEvaluator(key)}
}

// Serve accepts connections on ln and dispatches each in turn. The
// dispatch loop is single-threaded at the message level (§5): one
// connection is fully handled — including any homomorphic evaluation —
// before the next is accepted, since `stored` is never concurrently
// mutated. Serve returns nil after a Shutdown message is received and
// processed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log.Info().Str("address", ln.Addr().String()).Msg("server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		shutdown, err := s.handleConn(ctx, conn)
		if err != nil {
			log.Error().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("connection handling failed")
		}
		if shutdown {
			log.Info().Msg("shutting down")
			return nil
		}
	}
}

// handleConn processes exactly one message on conn, per §4.5's connection
// model (one message per TCP connection, at most one reply, then close).
// §7 treats an FHE library fault as fatal and everything else as
// log-and-continue. This recover turns a panic raised on the handler's own
// goroutine (an oracle fault inside pixelops, or an ordinary handler bug)
// into a logged error on this connection, without taking down the accept
// loop for other clients. It does not reach the goroutines that the bilinear
// rescale path starts (rescale's worker pool and kernel's interpolation join
// points): a panic there, including fhe.Evaluator.ScalarRightShift
// exhausting its shift budget, ends the process.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) (shutdown bool, err error) {
	defer conn.Close()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("cause", r).Msg("recovered from connection handler panic")
			err = errors.New("session: connection handler panicked")
		}
	}()

	msg, err := protocol.Read(conn)
	if err != nil {
		return false, err
	}
	log.Info().Str("kind", msg.Kind.String()).Str("remote", conn.RemoteAddr().String()).Msg("received message")

	if msg.RequiresStoredImage() && s.stored == nil {
		return false, protocol.Write(conn, protocol.NewNoImage())
	}

	switch msg.Kind {
	case protocol.Ping:
		return false, protocol.Write(conn, protocol.NewPong())

	case protocol.Image:
		img := msg.Image
		s.stored = &img
		return false, nil

	case protocol.Rescale:
		out, err := rescale.Rescale(ctx, s.eval, *s.stored, msg.Size, msg.Interpolation)
		if err != nil {
			return false, err
		}
		return false, protocol.Write(conn, protocol.NewImage(out))

	case protocol.Invert:
		out, err := pixelops.Invert(s.eval, *s.stored)
		if err != nil {
			return false, err
		}
		return false, protocol.Write(conn, protocol.NewImage(out))

	case protocol.Grayscale:
		out, ok, err := pixelops.Grayscale(s.eval, *s.stored)
		if err != nil {
			return false, err
		}
		if !ok {
			// Resolved open question (SPEC_FULL.md §9): reply NoImage
			// rather than leaving the client waiting on no reply at all.
			return false, protocol.Write(conn, protocol.NewNoImage())
		}
		return false, protocol.Write(conn, protocol.NewImage(out))

	case protocol.Shutdown:
		return true, nil

	default:
		// Pong, NoImage, and Image-as-reply are never sent to a server;
		// received inbound without an attached payload they are ignored.
		return false, nil
	}
}
