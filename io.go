package endpoint

import (
	"encoding/binary"
	"errors"
	"net"
	"time"
)

// keepAliveRate is the fixed interval between keep-alive sends while
// Connected and otherwise idle.
const keepAliveRate = 500 * time.Millisecond

// receiveTimeout bounds every blocking recv on a Connected or about-to-be-
// Connected socket, giving the worker's tick loop its cooperative cadence.
const receiveTimeout = 250 * time.Millisecond

// isTimeout reports whether err is a deadline exceeded on a
// non-blocking-style read/write, which must preserve parser state rather
// than discard it.
func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// writeFrame transmits one message's header, size, type, and payload in
// order. All fields are big-endian. Errors are returned to the caller,
// which surfaces them as a non-fatal SendFailed so a broken write isn't
// swallowed.
func writeFrame(conn *net.TCPConn, registry TypeRegistry, codec PayloadCodec, msg Message) error {
	typeID, err := registry.TypeID(msg)
	if err != nil {
		return err
	}
	length, err := codec.EncodedLength(msg)
	if err != nil {
		return err
	}
	payload, err := codec.Serialize(msg)
	if err != nil {
		return err
	}

	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], frameHeader())
	binary.BigEndian.PutUint32(buf[4:8], uint32(length))
	binary.BigEndian.PutUint32(buf[8:12], typeID)

	if _, err := conn.Write(buf[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := conn.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// sendKeepAlive transmits the 4-byte zero word.
func sendKeepAlive(conn *net.TCPConn) error {
	var zero [4]byte
	_, err := conn.Write(zero[:])
	return err
}
