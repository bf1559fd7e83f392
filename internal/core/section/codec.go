// Package section implements the fixed-size provenance section buffer format.
//
// A section buffer is a fixed-size byte array with two regions:
//
//   - Header: NumSlots little-endian uint16 values, one per slot, each the
//     slot's *end offset* relative to the end of the header.
//   - Payload: the remaining bytes, holding each present slot's UTF-8 string
//     concatenated in slot order with no separators.
//
// For slot i, the payload region is [end[i-1], end[i]) (0 for slot 0). A slot
// whose end offset equals the previous slot's end offset is absent. Because
// offsets are relative, an all-zero buffer decodes to "every slot absent",
// which makes a never-patched section safely self-describing.
package section

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/sufield/verstamp/internal/core/domain"
)

const (
	// HeaderSize is the size in bytes of the end-offset header.
	HeaderSize = domain.NumSlots * 2

	// DefaultBufferSize is the default total size of a section buffer.
	// Override with the VERSTAMP_BUFFER_SIZE environment variable when the
	// payload does not fit.
	DefaultBufferSize = 512

	// DefaultSectionName is the object-file section the buffer lives in.
	// Encode-time tooling and the reading runtime must agree on it exactly.
	DefaultSectionName = ".verstamp_data"

	// maxBufferSize is bounded by the uint16 end offsets plus the header.
	maxBufferSize = HeaderSize + 0xFFFF
)

// BufferOverflowError reports that the encoded payload does not fit in the
// buffer. It names the slot that overflowed and by how many bytes.
type BufferOverflowError struct {
	Slot       domain.Slot
	BufferSize int
	Needed     int
}

func (e *BufferOverflowError) Error() string {
	return fmt.Sprintf(
		"section data too large: slot %s needs %d bytes but buffer is %d (over by %d); "+
			"set VERSTAMP_BUFFER_SIZE to increase the buffer size",
		e.Slot, e.Needed, e.BufferSize, e.Needed-e.BufferSize)
}

// Encode serializes the assignment into a zero-filled buffer of bufferSize
// bytes. It walks slots in ordinal order, appending each present value to the
// payload and recording its end offset in the header. Absent slots repeat the
// previous end offset.
//
// Encode is pure: the same assignment and size always produce the same bytes.
// It fails with *BufferOverflowError when the payload would exceed the buffer,
// and returns no partial buffer in that case.
func Encode(assignment *domain.Assignment, bufferSize int) ([]byte, error) {
	if bufferSize < HeaderSize {
		return nil, fmt.Errorf("buffer size %d is smaller than the %d byte header", bufferSize, HeaderSize)
	}
	if bufferSize > maxBufferSize {
		return nil, fmt.Errorf("buffer size %d exceeds the format maximum %d", bufferSize, maxBufferSize)
	}

	buf := make([]byte, bufferSize)

	// Payload cursor, relative to the end of the header.
	cursor := 0
	for _, slot := range domain.Slots() {
		if value, ok := assignment.Get(slot); ok {
			start := HeaderSize + cursor
			end := start + len(value)
			if end > bufferSize {
				return nil, &BufferOverflowError{Slot: slot, BufferSize: bufferSize, Needed: end}
			}
			copy(buf[start:end], value)
			cursor += len(value)
		}
		binary.LittleEndian.PutUint16(buf[int(slot)*2:], uint16(cursor))
	}

	return buf, nil
}

// Decode reads an assignment back out of a section buffer.
//
// Buffers are untrusted runtime data (a stripped binary, a foreign build, a
// skewed tool version), so Decode never fails. A buffer shorter than the
// header or with out-of-range or non-monotonic offsets decodes as all
// absent; a slot holding invalid UTF-8 decodes as absent on its own.
func Decode(buf []byte) *domain.Assignment {
	assignment := &domain.Assignment{}
	if len(buf) < HeaderSize {
		return assignment
	}

	// Validate the header up front: end offsets must be monotonically
	// non-decreasing and stay within the payload. A header violating either
	// rule is garbage, and the whole buffer reads as all-absent.
	payloadLen := len(buf) - HeaderSize
	ends := make([]int, domain.NumSlots)
	prev := 0
	for i := range ends {
		end := int(binary.LittleEndian.Uint16(buf[i*2:]))
		if end < prev || end > payloadLen {
			return assignment
		}
		ends[i] = end
		prev = end
	}

	prev = 0
	for _, slot := range domain.Slots() {
		end := ends[slot]
		if end > prev {
			value := buf[HeaderSize+prev : HeaderSize+end]
			if utf8.Valid(value) {
				assignment.Set(slot, string(value))
			}
			prev = end
		}
	}

	return assignment
}
