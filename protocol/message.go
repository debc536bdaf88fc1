// Package protocol implements the wire message union of spec.md §6: a
// tagged request/response carried over a single TCP connection, one message
// per connection.
package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/privateimg/fhimg/fhe"
	"github.com/privateimg/fhimg/imaging"
	"github.com/privateimg/fhimg/rescale"
)

// Kind tags the variant carried by a Message.
type Kind uint8

const (
	Ping Kind = iota
	Pong
	Shutdown
	Image
	Rescale
	Invert
	Grayscale
	NoImage
)

func (k Kind) String() string {
	switch k {
	case Ping:
		return "ping"
	case Pong:
		return "pong"
	case Shutdown:
		return "shutdown"
	case Image:
		return "image"
	case Rescale:
		return "rescale"
	case Invert:
		return "invert"
	case Grayscale:
		return "grayscale"
	case NoImage:
		return "no-image"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Message is the tagged union spec.md §6 specifies. Only the fields
// relevant to Kind are meaningful; callers constructing a Message use the
// New* helpers below rather than populating fields directly.
type Message struct {
	Kind Kind

	// Set when Kind == Image.
	Image imaging.EncryptedImage

	// Set when Kind == Rescale.
	Size          imaging.Size
	Interpolation rescale.Kind
}

// NewPing, NewPong, NewShutdown, NewInvert, NewGrayscale, NewNoImage build
// the payload-free variants.
func NewPing() Message      { return Message{Kind: Ping} }
func NewPong() Message      { return Message{Kind: Pong} }
func NewShutdown() Message  { return Message{Kind: Shutdown} }
func NewInvert() Message    { return Message{Kind: Invert} }
func NewGrayscale() Message { return Message{Kind: Grayscale} }
func NewNoImage() Message   { return Message{Kind: NoImage} }

// NewImage builds an Image(e) message.
func NewImage(img imaging.EncryptedImage) Message {
	return Message{Kind: Image, Image: img}
}

// NewRescale builds a Rescale(size, kind) message.
func NewRescale(size imaging.Size, kind rescale.Kind) Message {
	return Message{Kind: Rescale, Size: size, Interpolation: kind}
}

// ExpectsAnswer is the pure function of Kind spec.md §4.6 names: the
// answer-expected set is {Ping, Rescale, Invert, Grayscale}, the
// answer-absent set is {Pong, Shutdown, Image, NoImage}.
func (m Message) ExpectsAnswer() bool {
	switch m.Kind {
	case Ping, Rescale, Invert, Grayscale:
		return true
	default:
		return false
	}
}

// RequiresStoredImage reports whether the server must have a stored image
// to answer m (§4.5 dispatch rule 2).
func (m Message) RequiresStoredImage() bool {
	switch m.Kind {
	case Rescale, Invert, Grayscale:
		return true
	default:
		return false
	}
}

// Write encodes msg to w: a tag byte, followed by big-endian fixed fields
// for the fields Kind implies, followed by a length-prefixed gob payload
// for the variable-length EncryptedImage (§6: the logical encoding is
// length-free, but a stream socket still needs a length prefix to know how
// many payload bytes to read — see SPEC_FULL.md §6).
func Write(w io.Writer, msg Message) error {
	if err := binary.Write(w, binary.BigEndian, msg.Kind); err != nil {
		return fmt.Errorf("protocol: writing tag: %w", err)
	}

	switch msg.Kind {
	case Rescale:
		if err := writeSize(w, msg.Size); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint8(msg.Interpolation)); err != nil {
			return fmt.Errorf("protocol: writing interpolation kind: %w", err)
		}
	case Image:
		if err := writeSize(w, msg.Image.Size); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint8(msg.Image.ColorType)); err != nil {
			return fmt.Errorf("protocol: writing color type: %w", err)
		}
		if err := writeCiphertexts(w, msg.Image.Data); err != nil {
			return err
		}
	}

	return nil
}

// Read decodes one Message from r, the inverse of Write.
func Read(r io.Reader) (Message, error) {
	var tag uint8
	if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
		return Message{}, fmt.Errorf("protocol: reading tag: %w", err)
	}
	kind := Kind(tag)

	switch kind {
	case Rescale:
		size, err := readSize(r)
		if err != nil {
			return Message{}, err
		}
		var interp uint8
		if err := binary.Read(r, binary.BigEndian, &interp); err != nil {
			return Message{}, fmt.Errorf("protocol: reading interpolation kind: %w", err)
		}
		return NewRescale(size, rescale.Kind(interp)), nil
	case Image:
		size, err := readSize(r)
		if err != nil {
			return Message{}, err
		}
		var colorType uint8
		if err := binary.Read(r, binary.BigEndian, &colorType); err != nil {
			return Message{}, fmt.Errorf("protocol: reading color type: %w", err)
		}
		data, err := readCiphertexts(r)
		if err != nil {
			return Message{}, err
		}
		img, err := imaging.NewEncrypted(data, size, imaging.ColorType(colorType))
		if err != nil {
			return Message{}, fmt.Errorf("protocol: reassembling image: %w", err)
		}
		return NewImage(img), nil
	case Ping, Pong, Shutdown, Invert, Grayscale, NoImage:
		return Message{Kind: kind}, nil
	default:
		return Message{}, fmt.Errorf("protocol: unknown message tag %d", tag)
	}
}

func writeSize(w io.Writer, size imaging.Size) error {
	if err := binary.Write(w, binary.BigEndian, size.Width); err != nil {
		return fmt.Errorf("protocol: writing width: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, size.Height); err != nil {
		return fmt.Errorf("protocol: writing height: %w", err)
	}
	return nil
}

func readSize(r io.Reader) (imaging.Size, error) {
	var size imaging.Size
	if err := binary.Read(r, binary.BigEndian, &size.Width); err != nil {
		return imaging.Size{}, fmt.Errorf("protocol: reading width: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &size.Height); err != nil {
		return imaging.Size{}, fmt.Errorf("protocol: reading height: %w", err)
	}
	return size, nil
}

func writeCiphertexts(w io.Writer, data []fhe.CtInt) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("protocol: encoding ciphertexts: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(buf.Len())); err != nil {
		return fmt.Errorf("protocol: writing payload length: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("protocol: writing ciphertexts: %w", err)
	}
	return nil
}

func readCiphertexts(r io.Reader) ([]fhe.CtInt, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("protocol: reading payload length: %w", err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("protocol: reading ciphertexts: %w", err)
	}

	var data []fhe.CtInt
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&data); err != nil {
		return nil, fmt.Errorf("protocol: decoding ciphertexts: %w", err)
	}
	return data, nil
}
