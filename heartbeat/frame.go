package heartbeat

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds the payload of one frame.
const MaxFrameSize = 1 << 20

const frameHeaderSize = 4

// WriteFrame writes payload prefixed with its length as a 4-byte big-endian integer.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrMalformedFrame, len(payload), MaxFrameSize)
	}
	buf := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[frameHeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed frame.
// Returns io.EOF when r is closed before a header, io.ErrUnexpectedEOF on a truncated frame
// and ErrMalformedFrame when the announced length exceeds MaxFrameSize.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame of %d bytes exceeds %d", ErrMalformedFrame, n, MaxFrameSize)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
