package cpu

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

// Image is a loadable program image: an origin address and the words placed
// there. The wire format is a big-endian 16-bit origin followed by
// big-endian 16-bit words until end of stream; there is no header, magic,
// or checksum.
type Image struct {
	Origin uint16
	Words  []uint16
}

// ReadImage parses an image from a byte stream. A stream too short to hold
// the origin word is ErrImageTruncated; a trailing odd byte is treated as a
// clean end of stream; any other read failure is propagated.
func ReadImage(r io.Reader) (im *Image, err error) {
	br := bufio.NewReader(r)

	var origin uint16
	err = binary.Read(br, binary.BigEndian, &origin)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrImageTruncated
		}
		return
	}

	im = &Image{Origin: origin}
	for {
		var word uint16
		err = binary.Read(br, binary.BigEndian, &word)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = nil
			return
		}
		if err != nil {
			im = nil
			return
		}
		im.Words = append(im.Words, word)
	}
}

// Bytes returns the image in its wire format.
func (im *Image) Bytes() (data []byte) {
	data = binary.BigEndian.AppendUint16(data, im.Origin)
	for _, word := range im.Words {
		data = binary.BigEndian.AppendUint16(data, word)
	}

	return
}

// Load writes the image's words into memory starting at its origin. The
// write address wraps modulo the address space; an image larger than the
// room above its origin silently overwrites low memory, matching the
// hardware loader it models.
func (cpu *Cpu) Load(im *Image) {
	addr := im.Origin
	for _, word := range im.Words {
		cpu.Mem.Write(addr, word)
		addr++
	}
}

// LoadImage parses an image from a byte stream and loads it into memory.
// A parse failure leaves memory untouched and is surfaced before any
// execution can begin.
func (cpu *Cpu) LoadImage(r io.Reader) (err error) {
	im, err := ReadImage(r)
	if err != nil {
		return
	}

	cpu.Load(im)
	return
}
