package stomp

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Codec is the interface for frame encoding and decoding.
//
// Decode reads from a buffered reader positioned at a frame boundary and
// consumes exactly the bytes of one frame, so the same reader can be handed
// to Decode again for the next frame.
type Codec interface {
	// Decode reads and decodes one complete frame from the reader.
	Decode(r *bufio.Reader) (Frame, error)
	// Encode returns the wire form of f. A non-nil receipt adds a
	// receipt header carrying its value.
	Encode(f Frame, receipt *uint64) ([]byte, error)
}

// FrameCodec is the STOMP wire format codec.
type FrameCodec struct {
	// MaxBodySize rejects frames declaring a larger content-length.
	// Zero means no limit.
	MaxBodySize int
}

// Encode implements Codec.
func (c FrameCodec) Encode(f Frame, receipt *uint64) ([]byte, error) {
	return f.marshal(receipt)
}

// Decode implements Codec.
func (c FrameCodec) Decode(r *bufio.Reader) (Frame, error) {
	return readFrame(r, c.MaxBodySize)
}

// ReadFrame decodes one frame from r without a body size limit.
func ReadFrame(r *bufio.Reader) (Frame, error) {
	return readFrame(r, 0)
}

// readFrame skips blank keep-alive lines, parses the command line and the
// header block, then reads the body up to the NUL terminator and checks it
// against content-length. I/O errors from r are returned as they are.
func readFrame(r *bufio.Reader, maxBody int) (Frame, error) {
	line, err := readCommandLine(r)
	if err != nil {
		return Frame{}, err
	}

	command, err := ParseCommand(line)
	if err != nil {
		return Frame{}, err
	}

	headers, length, err := readHeaders(r)
	if err != nil {
		return Frame{}, err
	}

	if maxBody > 0 && length > maxBody {
		return Frame{}, errors.Wrapf(ErrFrameTooLarge, "content-length %d exceeds %d", length, maxBody)
	}

	body, err := readBody(r, length, maxBody)
	if err != nil {
		return Frame{}, err
	}

	return Frame{Command: command, Headers: headers, Body: body}, nil
}

func readCommandLine(r *bufio.Reader) (string, error) {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
}

// readHeaders returns the headers in the order received and the value of
// the first content-length header. Every content-length must be valid.
func readHeaders(r *bufio.Reader) (Headers, int, error) {
	var (
		headers   Headers
		length    int
		hasLength bool
	)

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, 0, err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}

		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return nil, 0, errors.Wrapf(ErrMalformedHeader, "%q", line)
		}

		key, value := parts[0], parts[1]
		if key == HeaderContentLength {
			n, err := strconv.ParseUint(value, 10, strconv.IntSize-1)
			if err != nil {
				return nil, 0, errors.Wrapf(ErrMalformedHeader, "bad content-length %q", value)
			}
			if !hasLength {
				length, hasLength = int(n), true
			}
		}
		headers = append(headers, Header{Key: key, Value: value})
	}

	if !hasLength {
		return nil, 0, ErrMissingContentLength
	}
	return headers, length, nil
}

// readBody scans to the NUL terminator and checks the body against the
// declared length. With maxBody set, the scan stops with ErrFrameTooLarge
// once more than maxBody bytes have been read without a terminator.
func readBody(r *bufio.Reader, length, maxBody int) ([]byte, error) {
	var body []byte
	for {
		chunk, err := r.ReadSlice(terminator)
		data := chunk
		if err == nil {
			data = chunk[:len(chunk)-1]
		}

		if maxBody > 0 && len(body)+len(data) > maxBody {
			return nil, errors.Wrapf(ErrFrameTooLarge, "body exceeds %d bytes before terminator", maxBody)
		}
		body = append(body, data...)

		if err == nil {
			break
		}
		if err != bufio.ErrBufferFull {
			return nil, err
		}
	}

	if len(body) != length {
		return nil, &BodyLengthMismatchError{Read: len(body), Declared: length}
	}
	if body == nil {
		body = []byte{}
	}
	return body, nil
}
