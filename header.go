package stomp

// Header names used by the client.
const (
	HeaderContentLength = "content-length"
	HeaderContentType   = "content-type"
	HeaderReceipt       = "receipt"
	HeaderReceiptID     = "receipt-id"
	HeaderAcceptVersion = "accept-version"
	HeaderHost          = "host"
	HeaderDestination   = "destination"
	HeaderID            = "id"
	HeaderAck           = "ack"
	HeaderSubscription  = "subscription"
	HeaderMessageID     = "message-id"
)

// Header is a single key:value frame header.
type Header struct {
	Key   string
	Value string
}

// NewHeader returns a Header.
func NewHeader(key, value string) Header {
	return Header{Key: key, Value: value}
}

// Headers is the ordered header list of a frame. Keys may repeat.
type Headers []Header

// Get returns the value of the first header named key.
func (h Headers) Get(key string) (string, bool) {
	for _, hdr := range h {
		if hdr.Key == key {
			return hdr.Value, true
		}
	}
	return "", false
}

// Contains reports whether a header named key is present.
func (h Headers) Contains(key string) bool {
	_, ok := h.Get(key)
	return ok
}
