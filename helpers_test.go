package zynqboot

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// testImage is a synthetic boot image built word by word.
type testImage struct {
	buf []byte
}

func newTestImage(size int) *testImage {
	return &testImage{buf: make([]byte, size)}
}

func (ti *testImage) putWord(off int, v uint32) {
	binary.LittleEndian.PutUint32(ti.buf[off:], v)
}

// putName writes name the way bootgen does: big-endian 4-byte blocks, NUL
// padded, followed by an all-zero block. It returns the bytes written.
func (ti *testImage) putName(off int, name string) int {
	padded := []byte(name)
	for len(padded)%WordSize != 0 {
		padded = append(padded, 0)
	}

	for i := 0; i < len(padded); i += WordSize {
		ti.putWord(off+i, binary.BigEndian.Uint32(padded[i:]))
	}
	ti.putWord(off+len(padded), 0)

	return len(padded) + WordSize
}

// putTable writes an image header table with byte offsets stored as word counts.
func (ti *testImage) putTable(version, count uint32, partitionOffset, firstImageOffset int) {
	ti.putWord(ImageHeaderTableOffset, version)
	ti.putWord(ImageHeaderTableOffset+4, count)
	ti.putWord(ImageHeaderTableOffset+8, uint32(partitionOffset/WordSize))
	ti.putWord(ImageHeaderTableOffset+12, uint32(firstImageOffset/WordSize))
}

// putImageHeader writes one chain node at off.
func (ti *testImage) putImageHeader(off, next, partitionOffset int, partitionCount, nameLength uint32, name string) {
	ti.putWord(off, uint32(next/WordSize))
	ti.putWord(off+4, uint32(partitionOffset/WordSize))
	ti.putWord(off+8, partitionCount)
	ti.putWord(off+12, nameLength)
	ti.putName(off+16, name)
}

func (ti *testImage) reader(t *testing.T) *WordReader {
	t.Helper()

	wr, err := NewWordReader(bytes.NewReader(ti.buf))
	if err != nil {
		t.Fatalf("NewWordReader returned error: %v", err)
	}
	return wr
}

// encodeBootROMHeader lays h out at the documented offsets.
func encodeBootROMHeader(ti *testImage, h *BootROMHeader) {
	for i, v := range h.InterruptVectors {
		ti.putWord(i*WordSize, v)
	}

	fields := []uint32{
		h.WidthDetection,
		h.ImageID,
		h.EncryptionStatus,
		h.UserDefined,
		h.SourceOffset,
		h.LengthOfImage,
		h.Reserved1,
		h.StartOfExecution,
		h.TotalImageLength,
		h.Reserved2,
		h.HeaderChecksum,
	}
	for i, v := range fields {
		ti.putWord(0x020+i*WordSize, v)
	}

	for i, reg := range h.Registers {
		ti.putWord(RegisterInitOffset+i*8, reg.Address)
		ti.putWord(RegisterInitOffset+i*8+4, reg.Value)
	}
}

// sampleBootROMHeader returns a header with every field distinct and the
// register list terminated after three entries.
func sampleBootROMHeader() *BootROMHeader {
	h := &BootROMHeader{
		WidthDetection:   0xaa995566,
		ImageID:          0x584c4e58, // "XNLX"
		EncryptionStatus: 0x00000000,
		UserDefined:      0x01010000,
		SourceOffset:     0x00001700,
		LengthOfImage:    0x0001c4e0,
		Reserved1:        0x00000000,
		StartOfExecution: 0x00000000,
		TotalImageLength: 0x0001c4e0,
		Reserved2:        0x00000001,
	}
	for i := range h.InterruptVectors {
		h.InterruptVectors[i] = 0xeafffffe
	}
	h.HeaderChecksum = h.ComputeChecksum()

	for i := range h.Registers {
		h.Registers[i] = RegisterTerminator
	}
	h.Registers[0] = RegisterPair{Address: 0xf8000008, Value: 0x0000df0d}
	h.Registers[1] = RegisterPair{Address: 0xf8000110, Value: 0x000fa220}
	h.Registers[2] = RegisterPair{Address: 0xf8000004, Value: 0x0000767b}

	return h
}
