package stomp

// options holds the configuration for a client session.
type options struct {
	codec  Codec
	logger Logger

	receipts      bool   // request a receipt for every frame sent
	maxBodySize   int    // maximum declared content-length accepted on read
	acceptVersion string // accept-version header of CONNECT
	host          string // optional host header of CONNECT
}

// Option is a function that configures client options.
type Option func(*options)

// CustomCodecOption returns an Option that replaces the frame codec.
// If not set, FrameCodec is used.
func CustomCodecOption(codec Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// ReceiptsOption returns an Option that controls whether every frame sent
// carries a receipt header with the next receipt id.
func ReceiptsOption(enabled bool) Option {
	return func(o *options) {
		o.receipts = enabled
	}
}

// MaxBodySizeOption returns an Option that sets the largest content-length
// the client accepts when reading frames. Zero disables the limit.
// Ignored when a custom codec is set.
func MaxBodySizeOption(size int) Option {
	return func(o *options) {
		o.maxBodySize = size
	}
}

// AcceptVersionOption returns an Option that sets the accept-version header
// sent with CONNECT.
func AcceptVersionOption(versions string) Option {
	return func(o *options) {
		o.acceptVersion = versions
	}
}

// HostOption returns an Option that adds a host header to CONNECT.
func HostOption(host string) Option {
	return func(o *options) {
		o.host = host
	}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
