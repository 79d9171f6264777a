//go:build !darwin

package endpoint

import "net"

// disableSIGPIPE is a no-op outside Darwin. The Go runtime already ignores
// SIGPIPE for every file descriptor except stdin/stdout/stderr (see
// os/signal's documentation of default disposition), so a reset peer
// surfaces as a plain write error rather than a process signal; there is no
// equivalent of MSG_NOSIGNAL to request explicitly on these platforms.
func disableSIGPIPE(conn *net.TCPConn) {}
