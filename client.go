// Package stomp provides a minimal STOMP client for Go.
// It encodes frames to the STOMP wire format, decodes frames from a byte
// stream, and drives a connection through CONNECT, SUBSCRIBE, SEND and
// DISCONNECT while tracking outgoing receipt ids.
package stomp

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"sync/atomic"
)

// Default configuration values.
const (
	// defaultAcceptVersion is the accept-version header sent with CONNECT.
	defaultAcceptVersion = "1.1,1.2"
	// defaultReadBufferSize is the size of the buffered reader over the transport.
	defaultReadBufferSize = 4096
)

// Client is a STOMP session over one transport.
//
// A Client owns its transport exclusively and supports one operation at a
// time: SendFrame and ReadFrame must not be called concurrently. Close may be
// called from any goroutine to unblock a pending read.
//
// Once an operation fails with an I/O or decode error, or Disconnect has been
// called, the transport is closed and every further operation returns
// ErrSessionClosed.
type Client struct {
	conn   io.ReadWriteCloser
	reader *bufio.Reader
	logger Logger

	opts options

	receipts uint64
	closed   atomic.Bool
}

// NewClient creates a session over an established transport.
// Returns ErrInvalidTransport if conn is nil.
func NewClient(conn io.ReadWriteCloser, opt ...Option) (*Client, error) {
	if conn == nil {
		return nil, ErrInvalidTransport
	}

	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	return newClientWithOptions(conn, opts), nil
}

// Dial connects to a STOMP broker and returns a session over the new
// connection. The protocol handshake is not performed; call Connect.
func Dial(ctx context.Context, network, address string, opt ...Option) (*Client, error) {
	conn, err := (&net.Dialer{}).DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	c, err := NewClient(conn, opt...)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// checkOptions sets default values for client options.
func checkOptions(opts *options) {
	if opts.codec == nil {
		opts.codec = FrameCodec{MaxBodySize: opts.maxBodySize}
	}

	if opts.acceptVersion == "" {
		opts.acceptVersion = defaultAcceptVersion
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}
}

// newClientWithOptions creates a new Client with the given options.
func newClientWithOptions(conn io.ReadWriteCloser, opts options) *Client {
	return &Client{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, defaultReadBufferSize),
		logger: opts.logger,
		opts:   opts,
	}
}

// Connect sends CONNECT and returns the frame the broker answers with.
// The reply is not checked; callers expecting CONNECTED must verify
// the command themselves.
func (c *Client) Connect() (Frame, error) {
	if c.closed.Load() {
		return Frame{}, ErrSessionClosed
	}

	headers := Headers{NewHeader(HeaderAcceptVersion, c.opts.acceptVersion)}
	if c.opts.host != "" {
		headers = append(headers, NewHeader(HeaderHost, c.opts.host))
	}

	if err := c.sendFrame(Frame{Command: CONNECT, Headers: headers}); err != nil {
		return Frame{}, err
	}

	reply, err := c.readFrame()
	if err != nil {
		return Frame{}, err
	}

	c.logger.Info("session connected", "addr", c.Addr(), "reply", reply.Command)
	return reply, nil
}

// Subscribe sends SUBSCRIBE for destination with automatic acknowledgement.
// No reply is awaited.
func (c *Client) Subscribe(id, destination string) error {
	return c.SendFrame(NewFrame(SUBSCRIBE, nil,
		NewHeader(HeaderID, id),
		NewHeader(HeaderDestination, destination),
		NewHeader(HeaderAck, "auto"),
	))
}

// Unsubscribe sends UNSUBSCRIBE for the subscription id.
func (c *Client) Unsubscribe(id string) error {
	return c.SendFrame(NewFrame(UNSUBSCRIBE, nil, NewHeader(HeaderID, id)))
}

// Send sends a text/plain SEND frame carrying body to destination.
func (c *Client) Send(destination string, body []byte) error {
	return c.SendFrame(NewFrame(SEND, append([]byte(nil), body...),
		NewHeader(HeaderDestination, destination),
		NewHeader(HeaderContentType, "text/plain"),
	))
}

// SendFrame encodes and writes f. When receipts are enabled the receipt
// counter is incremented first and its new value is sent as the receipt
// header.
//
// An encoding error leaves the session and the receipt counter unchanged
// since nothing was written.
func (c *Client) SendFrame(f Frame) error {
	if c.closed.Load() {
		return ErrSessionClosed
	}
	return c.sendFrame(f)
}

// ReadFrame blocks until one complete frame has been read. Broker replies
// and MESSAGE deliveries are returned alike.
func (c *Client) ReadFrame() (Frame, error) {
	if c.closed.Load() {
		return Frame{}, ErrSessionClosed
	}
	return c.readFrame()
}

// Disconnect ends the session: it sends DISCONNECT with a receipt header,
// waits for the broker's reply and closes the transport in both directions.
// The transport is closed even when sending or reading fails. The reply is
// returned unchecked.
//
// With receipts disabled the receipt header carries the current counter.
// With receipts enabled the counter is advanced as for any other frame and
// the single receipt header carries the new value, which Receipts reports
// afterwards.
func (c *Client) Disconnect() (Frame, error) {
	if c.closed.Swap(true) {
		return Frame{}, ErrSessionClosed
	}
	defer c.conn.Close()

	// With receipts enabled sendFrame attaches the next id itself.
	f := Frame{Command: DISCONNECT}
	if !c.opts.receipts {
		f.Headers = Headers{NewHeader(HeaderReceipt, strconv.FormatUint(c.receipts, 10))}
	}

	if err := c.sendFrame(f); err != nil {
		return Frame{}, err
	}

	reply, err := c.readFrame()
	if err != nil {
		return Frame{}, err
	}

	c.logger.Info("session disconnected", "addr", c.Addr(), "reply", reply.Command)
	return reply, nil
}

// Close closes the transport without the DISCONNECT exchange.
// Safe to call multiple times and from other goroutines.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil // already closed
	}
	return c.conn.Close()
}

// IsClosed returns true if the session has been closed.
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}

// Receipts returns the last receipt id sent.
func (c *Client) Receipts() uint64 {
	return c.receipts
}

// Addr returns the remote address of the transport, or nil when the
// transport is not a net.Conn.
func (c *Client) Addr() net.Addr {
	if nc, ok := c.conn.(net.Conn); ok {
		return nc.RemoteAddr()
	}
	return nil
}

func (c *Client) sendFrame(f Frame) error {
	var receipt *uint64
	if c.opts.receipts {
		id := c.receipts + 1
		receipt = &id
	}

	data, err := c.opts.codec.Encode(f, receipt)
	if err != nil {
		return err
	}
	if receipt != nil {
		c.receipts = *receipt
	}

	if _, err = c.conn.Write(data); err != nil {
		c.logger.Debug("write error", "addr", c.Addr(), "command", f.Command, "error", err)
		return c.fail(err)
	}

	c.logger.Debug("frame sent", frameArgs(f, "addr", c.Addr(), "receipt", c.receipts)...)
	return nil
}

func (c *Client) readFrame() (Frame, error) {
	f, err := c.opts.codec.Decode(c.reader)
	if err != nil {
		c.logger.Debug("read error", "addr", c.Addr(), "error", err)
		return Frame{}, c.fail(err)
	}

	c.logger.Debug("frame read", frameArgs(f, "addr", c.Addr())...)
	return f, nil
}

// fail closes the transport and returns err unchanged.
func (c *Client) fail(err error) error {
	_ = c.Close()
	return err
}
