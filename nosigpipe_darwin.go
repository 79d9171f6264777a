//go:build darwin

package endpoint

import (
	"net"

	"golang.org/x/sys/unix"
)

// disableSIGPIPE sets SO_NOSIGPIPE on conn's underlying file descriptor.
// On Darwin, unlike Linux, a write to a peer that has reset the connection
// raises SIGPIPE by default even though the Go runtime otherwise ignores
// it for non-stdio descriptors; the socket option is the platform's
// stand-in for a send()-time MSG_NOSIGNAL flag, which Darwin lacks.
// Failure to set the option only affects signal delivery, not
// correctness, so errors are deliberately ignored.
func disableSIGPIPE(conn *net.TCPConn) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
	})
}
