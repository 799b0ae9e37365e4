package zynqboot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WordSize is the size in bytes of one boot image word.
const WordSize = 4

// WordReader reads little-endian 32-bit words from a seekable input.
//
// The cursor is owned by the reader and only moves on successful reads or
// explicit seeks. Seeking past the end of the input is allowed; the overrun is
// reported as ErrTruncatedInput by the next read. A WordReader must not be
// shared between goroutines.
type WordReader struct {
	r    io.ReadSeeker
	off  int64
	size int64
}

// NewWordReader prepares r for word access, positioned at offset 0.
func NewWordReader(r io.ReadSeeker) (*WordReader, error) {
	if r == nil {
		return nil, errors.New("word reader requires an input")
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, eMsg(err, "finding input size")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, eMsg(err, "seeking to start of input")
	}

	return &WordReader{r: r, size: size}, nil
}

// Offset returns the cursor position in bytes from the start of the input.
func (wr *WordReader) Offset() int64 {
	return wr.off
}

// Size returns the input size in bytes.
func (wr *WordReader) Size() int64 {
	return wr.size
}

func (wr *WordReader) remaining() int64 {
	if wr.off >= wr.size {
		return 0
	}
	return wr.size - wr.off
}

func (wr *WordReader) truncated(want int64) error {
	return eDetail(ErrTruncatedInput, "need %d bytes at offset %#x, %d left", want, wr.off, wr.remaining())
}

// read fills buf from the cursor, advancing it by len(buf).
func (wr *WordReader) read(buf []byte) error {
	want := int64(len(buf))
	if wr.remaining() < want {
		return wr.truncated(want)
	}

	if _, err := io.ReadFull(wr.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return wr.truncated(want)
		}
		return eMsg(err, "reading input")
	}

	wr.off += want
	return nil
}

// ReadWords reads exactly n words.
func (wr *WordReader) ReadWords(n int) ([]uint32, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid word count %d", n)
	}

	buf := make([]byte, n*WordSize)
	if err := wr.read(buf); err != nil {
		return nil, err
	}

	words := make([]uint32, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*WordSize:])
	}

	return words, nil
}

// ReadWord reads a single word.
func (wr *WordReader) ReadWord() (uint32, error) {
	var buf [WordSize]byte
	if err := wr.read(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadBigEndianString reads 4-byte blocks up to and including an all-zero
// block. Each block is byte-reversed before it is appended; the terminating
// block is not part of the result. Padding NULs inside the last non-zero block
// are kept.
func (wr *WordReader) ReadBigEndianString() (string, error) {
	var s []byte
	var block [WordSize]byte

	for {
		if err := wr.read(block[:]); err != nil {
			return "", err
		}

		if block == [WordSize]byte{} {
			break
		}

		s = append(s, block[3], block[2], block[1], block[0])
	}

	return string(s), nil
}

// SeekTo moves the cursor to an absolute byte offset.
func (wr *WordReader) SeekTo(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("negative seek offset %d", offset)
	}

	if _, err := wr.r.Seek(offset, io.SeekStart); err != nil {
		return eMsg(err, fmt.Sprintf("seeking to %#x", offset))
	}

	wr.off = offset
	return nil
}
