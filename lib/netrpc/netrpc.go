// Package netrpc carries net/rpc over HTTP CONNECT with context-bounded calls.
package netrpc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"strings"
)

// connected is the status line net/rpc answers a CONNECT with.
const connected = "200 Connected to Go RPC"

var (
	ErrUnreachable      = errors.New("rpc target unreachable")
	ErrHandshakeFailed  = errors.New("rpc handshake failed")
	ErrServerNotStarted = errors.New("rpc server not started")
)

// DialHTTP connects to an HTTP RPC server at addr. The ctx deadline, if any,
// bounds the dial, the handshake and every later read and write on the
// returned client's connection.
func DialHTTP(ctx context.Context, addr string) (*rpc.Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}

	_, err = io.WriteString(conn, "CONNECT "+rpc.DefaultRPCPath+" HTTP/1.0\n\n")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrHandshakeFailed, addr, err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), &http.Request{Method: http.MethodConnect})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrHandshakeFailed, addr, err)
	}

	if resp.Status != connected {
		conn.Close()
		return nil, fmt.Errorf("%w: %s: unexpected status %q", ErrHandshakeFailed, addr, resp.Status)
	}

	return rpc.NewClient(conn), nil
}

// Call dials addr, invokes serviceMethod once and closes the connection.
// It returns when the reply arrives or ctx is done, whichever happens first.
func Call(ctx context.Context, addr, serviceMethod string, args interface{}, reply interface{}) error {
	client, err := DialHTTP(ctx, addr)
	if err != nil {
		return err
	}

	defer client.Close()

	call := client.Go(serviceMethod, args, reply, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case c := <-call.Done:
		return c.Error
	}
}

// IsRemoteError reports whether err is a server-side error carrying target's
// message. net/rpc flattens remote errors into rpc.ServerError strings.
func IsRemoteError(err, target error) bool {
	if err == nil || target == nil {
		return false
	}

	var serverErr rpc.ServerError
	if errors.As(err, &serverErr) {
		return strings.TrimSpace(string(serverErr)) == target.Error()
	}

	return errors.Is(err, target)
}
