package plant

import (
	"encoding/binary"
	"fmt"
)

// EncodeFrame prepends a 4-byte big-endian length header to an
// already-encoded schema message payload, ready to be sent as the
// data of a single WebSocket binary frame.
func EncodeFrame(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload))) //nolint:gosec // length fits uint32 in practice.
	copy(out[4:], payload)
	return out
}

// DecodeFrame strips the 4-byte big-endian length header from a
// WebSocket binary frame's data and returns the payload it wraps.
// It fails if the frame is shorter than the header, or if the
// declared length doesn't match the number of remaining bytes.
func DecodeFrame(frame []byte) ([]byte, error) {
	if len(frame) < 4 {
		return nil, fmt.Errorf("%w: frame shorter than length header (%d bytes)", ErrDecode, len(frame))
	}

	n := binary.BigEndian.Uint32(frame)
	rest := frame[4:]
	if uint32(len(rest)) != n { //nolint:gosec // comparison only, no overflow risk here.
		return nil, fmt.Errorf("%w: frame length mismatch: header says %d, got %d", ErrDecode, n, len(rest))
	}

	return rest, nil
}
