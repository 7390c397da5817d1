package stomp

import (
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"
)

const (
	lineEnd    = "\r\n"
	terminator = byte(0)
)

// Frame is one complete STOMP message.
type Frame struct {
	Command Command
	Headers Headers
	Body    []byte
}

// NewFrame builds a frame from a command, body and headers.
func NewFrame(command Command, body []byte, headers ...Header) Frame {
	return Frame{Command: command, Headers: headers, Body: body}
}

// Marshal returns the wire form of the frame without a receipt header.
func (f Frame) Marshal() ([]byte, error) {
	return f.marshal(nil)
}

// MarshalWithReceipt returns the wire form of the frame with a trailing
// receipt header carrying id.
func (f Frame) MarshalWithReceipt(id uint64) ([]byte, error) {
	return f.marshal(&id)
}

// WriteTo writes the wire form of the frame without a receipt header to w.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	data, err := f.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// String renders the frame as it would be sent without a receipt.
// Frames with a non-text body render as the empty string.
func (f Frame) String() string {
	data, err := f.Marshal()
	if err != nil {
		return ""
	}
	return string(data)
}

// marshal encodes the command line, the headers in order, a content-length
// header unless one was supplied, the optional receipt, a blank line, the
// body and the NUL terminator.
func (f Frame) marshal(receipt *uint64) ([]byte, error) {
	if !utf8.Valid(f.Body) {
		return nil, ErrInvalidBody
	}

	var buf bytes.Buffer
	buf.Grow(64 + len(f.Body))

	buf.WriteString(f.Command.String())
	buf.WriteString(lineEnd)

	hasLength := false
	for _, h := range f.Headers {
		if h.Key == HeaderContentLength {
			hasLength = true
		}
		writeHeader(&buf, h.Key, h.Value)
	}
	if !hasLength {
		writeHeader(&buf, HeaderContentLength, strconv.Itoa(len(f.Body)))
	}
	if receipt != nil {
		writeHeader(&buf, HeaderReceipt, strconv.FormatUint(*receipt, 10))
	}

	buf.WriteString(lineEnd)
	buf.Write(f.Body)
	buf.WriteByte(terminator)
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteByte(':')
	buf.WriteString(value)
	buf.WriteString(lineEnd)
}
