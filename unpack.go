package zynqboot

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strconv"
)

// Decode decodes a raw boot image: the boot ROM header, the image header
// table and, when the table is present, the image header chain. No partial
// image is returned on error. fin is only read and seeked.
func Decode(fin io.ReadSeeker, opts *Options) (*BootImage, error) {
	log := opts.logger()

	wr, err := NewWordReader(fin)
	if err != nil {
		return nil, err
	}

	header, err := ReadBootROMHeader(wr)
	if err != nil {
		return nil, eMsg(err, "reading boot ROM header")
	}

	table, err := ReadImageHeaderTable(wr, opts.tableVersions()...)
	if err != nil {
		return nil, eMsg(err, "reading image header table")
	}

	var images []ImageHeader
	if table.Present {
		images, err = ReadImageHeaders(wr, table.OffsetFirstImageHeader)
		if err != nil {
			return nil, eMsg(err, "reading image headers")
		}

		for _, hdr := range images {
			log.Debug("image header",
				slog.String("offset", hexString(hdr.Offset)),
				slog.String("name", hdr.DisplayName()))
		}
	} else {
		log.Debug("no image header table",
			slog.String("offset", hexString(ImageHeaderTableOffset)),
			slog.String("version", hexString(int64(table.RawVersion))))
	}

	sum, err := digest(fin)
	if err != nil {
		return nil, err
	}

	log.Debug("decoded boot image",
		slog.Int64("size", wr.Size()),
		slog.Int("registers", len(header.ActiveRegisters())),
		slog.Int("images", len(images)))

	return &BootImage{
		header: *header,
		table:  table,
		images: images,
		size:   wr.Size(),
		digest: sum,
	}, nil
}

// DecodeBytes decodes a boot image held in memory, decompressing it first if
// it is wrapped in a supported compressor. A compressor magic is only a hint:
// interrupt vector 0 of a raw image can hold the same bytes, so input that
// does not decompress is decoded as a raw image.
func DecodeBytes(data []byte, opts *Options) (*BootImage, error) {
	cMode := DetectCompressor(data)
	if cMode == CompNone {
		return Decode(bytes.NewReader(data), opts)
	}

	raw, comprErr := Decompress(bytes.NewReader(data), cMode)
	if comprErr == nil {
		img, err := Decode(bytes.NewReader(raw), opts)
		if err != nil {
			return nil, err
		}

		img.compr = cMode
		return img, nil
	}

	opts.logger().Debug("input does not decompress, decoding as raw image",
		slog.String("compression", CompressorName(cMode)),
		slog.String("error", comprErr.Error()))

	img, err := Decode(bytes.NewReader(data), opts)
	if err != nil {
		if len(data) < BootROMHeaderSize {
			return nil, comprErr
		}
		return nil, err
	}

	return img, nil
}

// Open decodes the named boot image file. Files with a compressor magic are
// read into memory and handled by DecodeBytes; everything else is decoded
// directly from the file. The file is closed before Open returns.
func Open(name string, opts *Options) (*BootImage, error) {
	fin, err := os.Open(name)
	if err != nil {
		return nil, eMsg(err, "opening image for reading")
	}
	defer fin.Close()

	magic := make([]byte, compMagicSize)
	n, err := io.ReadFull(fin, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, eMsg(err, "reading magic number from input")
	}

	if _, err := fin.Seek(0, io.SeekStart); err != nil {
		return nil, eMsg(err, "seeking to read header")
	}

	if DetectCompressor(magic[:n]) == CompNone {
		return Decode(fin, opts)
	}

	data, err := io.ReadAll(fin)
	if err != nil {
		return nil, eMsg(err, "reading image")
	}

	return DecodeBytes(data, opts)
}

func hexString(v int64) string {
	return "0x" + strconv.FormatInt(v, 16)
}
