package endpoint

// Message is an opaque structured message exchanged between two peers.
// The core never inspects a Message's fields; it only asks a TypeRegistry
// for the numeric type id that identifies it on the wire and a PayloadCodec
// for its serialized form. Applications define their own concrete message
// types and the registry/codec pair that knows how to move them to and
// from bytes.
type Message interface{}

// TypeRegistry maps numeric wire type ids to message constructors and back.
// It is supplied by the embedding application; the core only consumes it
// through this interface.
type TypeRegistry interface {
	// HasType reports whether id has a registered constructor.
	HasType(id uint32) bool
	// Create returns a new, empty message instance for id.
	// The returned message is subsequently filled in by PayloadCodec.Parse.
	Create(id uint32) (Message, error)
	// TypeID returns the wire type id for a message instance previously
	// produced by this registry, or obtained from the application.
	TypeID(msg Message) (uint32, error)
}

// PayloadCodec serializes and deserializes the opaque payload bytes that
// follow a frame's type field. The core treats payload bytes as entirely
// opaque; it only asks the codec for their length and their round-trip
// encoding.
type PayloadCodec interface {
	// EncodedLength returns the number of bytes Serialize would produce.
	EncodedLength(msg Message) (int, error)
	// Serialize returns the wire representation of msg's payload.
	Serialize(msg Message) ([]byte, error)
	// Parse fills msg in place from its wire payload bytes.
	Parse(msg Message, data []byte) error
}

// Payload size limits enforced while allocating the receive buffer for an
// in-flight wire message.
const (
	// MaxPayloadSize is the hard cap on a single frame's declared size.
	// Frames declaring a larger size are rejected as a fatal OutOfMemory
	// error without allocating a buffer.
	MaxPayloadSize = 500 * 1024 * 1024
	// PayloadWarnSize is the soft threshold above which an allocated
	// payload buffer is logged at Warn level, but still accepted.
	PayloadWarnSize = 128 * 1024 * 1024
)
