package zynqboot

import (
	"bytes"
	"errors"
	"io"

	gzip "github.com/klauspost/pgzip"
)

// Compression types/modes
const (
	CompNone = iota
	CompGzip
	CompLz4
	CompLzo
	CompXz
	CompBzip2
	CompLzma
)

var compMagics = []struct {
	mode  int
	magic []byte
}{
	{CompGzip, []byte{0x1f, 0x8b, 0x08}},
	{CompLz4, []byte{0x04, 0x22, 0x4d, 0x18}},
	{CompLzo, []byte{0x89, 'L', 'Z', 'O'}},
	{CompXz, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{CompBzip2, []byte{'B', 'Z', 'h'}},
	{CompLzma, []byte{0x5d, 0x00, 0x00}},
}

// compMagicSize is enough leading bytes to tell every known compressor apart.
const compMagicSize = 6

// DetectCompressor detects the compressor wrapped around a boot image.
// Anything without a known magic is treated as a raw image.
func DetectCompressor(data []byte) int {
	for _, c := range compMagics {
		if bytes.HasPrefix(data, c.magic) {
			return c.mode
		}
	}

	return CompNone
}

// CompressorName returns a human readable name for a compression mode.
func CompressorName(cMode int) string {
	switch cMode {
	case CompNone:
		return "none"
	case CompGzip:
		return "gzip"
	case CompLz4:
		return "LZ4"
	case CompLzo:
		return "LZO"
	case CompXz:
		return "XZ"
	case CompBzip2:
		return "Bzip2"
	case CompLzma:
		return "LZMA"
	default:
		return "unknown"
	}
}

// Decompress returns the raw boot image inside compr.
func Decompress(compr io.Reader, cMode int) ([]byte, error) {
	switch cMode {
	case CompNone:
		data, err := io.ReadAll(compr)
		if err != nil {
			return nil, eMsg(err, "reading image")
		}
		return data, nil
	case CompGzip:
	default:
		return nil, eMsg(errors.New(CompressorName(cMode)+" image compression is not supported"), "preparing to decompress image")
	}

	gReader, err := gzip.NewReader(compr)
	if err != nil {
		return nil, eMsg(err, "preparing to decompress image")
	}

	data, err := io.ReadAll(gReader)
	if err != nil {
		return nil, eMsg(err, "decompressing image")
	}

	err = gReader.Close()
	if err != nil {
		return nil, eMsg(err, "cleaning up image decompression")
	}

	return data, nil
}
