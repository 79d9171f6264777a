package main

import "github.com/arcuswire/endpoint"

// textMessageType is the single wire type id this interop CLI understands.
// Real applications register their own structured message types through
// their own registry/codec pair; this one
// exists only so endpointctl has something to send and receive.
const textMessageType uint32 = 1

// textMessage is a trivial UTF-8 text payload.
type textMessage struct {
	text string
}

// TypeID satisfies endpoint.TypedMessage so SimpleRegistry can resolve it.
func (m *textMessage) TypeID() uint32 { return textMessageType }

// textCodec implements endpoint.PayloadCodec for textMessage. It lives in
// the cmd package, not the core, because the payload codec is explicitly
// an embedder collaborator.
type textCodec struct{}

func (textCodec) EncodedLength(msg endpoint.Message) (int, error) {
	tm := msg.(*textMessage)
	return len(tm.text), nil
}

func (textCodec) Serialize(msg endpoint.Message) ([]byte, error) {
	tm := msg.(*textMessage)
	return []byte(tm.text), nil
}

func (textCodec) Parse(msg endpoint.Message, data []byte) error {
	tm := msg.(*textMessage)
	tm.text = string(data)
	return nil
}

func newTextRegistry() *endpoint.SimpleRegistry {
	reg := endpoint.NewSimpleRegistry()
	reg.Register(textMessageType, func() endpoint.Message { return &textMessage{} })
	return reg
}
