package ipc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Frame is one complete line taken off the byte stream.
// Err is set, wrapping ErrProtocol, when the line is not a JSON object.
type Frame struct {
	Msg Message
	Raw []byte
	Err error
}

// Framer reassembles newline-delimited messages from arbitrarily sized chunks.
// Bytes after the last newline are kept until a later chunk completes the line.
type Framer struct {
	buf []byte
}

// Feed appends chunk to the buffered data and returns every line it completes, in order.
func (f *Framer) Feed(chunk []byte) []Frame {
	f.buf = append(f.buf, chunk...)

	var frames []Frame
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}

		line := bytes.TrimSuffix(f.buf[:i], []byte{'\r'})
		f.buf = f.buf[i+1:]

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		frames = append(frames, decodeFrame(append([]byte(nil), line...)))
	}

	if len(f.buf) == 0 {
		f.buf = nil
	}
	return frames
}

// Pending returns the buffered bytes of an incomplete line.
func (f *Framer) Pending() []byte {
	return f.buf
}

func decodeFrame(line []byte) Frame {
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return Frame{Raw: line, Err: fmt.Errorf("%w: %w", ErrProtocol, err)}
	}
	if msg == nil {
		return Frame{Raw: line, Err: fmt.Errorf("%w: expected object, got %s", ErrProtocol, line)}
	}
	return Frame{Msg: msg, Raw: line}
}

// Encode serializes v as one line of the wire format: compact JSON followed by a single newline.
func Encode(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
