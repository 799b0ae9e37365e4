package zynqboot

import (
	"errors"
	"slices"
)

// ImageHeaderTableOffset is where the boot ROM places the image header table.
// UG585 documents 0x8a0, but images produced by bootgen put it at 0x8c0.
const ImageHeaderTableOffset = 0x8c0

// Image header table version sentinels. The version word is read little-endian
// like every other word; ImageHeaderTableVersionSwapped is the alternate form
// seen from some tooling and is only accepted on request.
const (
	ImageHeaderTableVersion        uint32 = 0x01010000
	ImageHeaderTableVersionSwapped uint32 = 0x10100000
)

// DefaultTableVersions is the accepted sentinel set when none is configured.
var DefaultTableVersions = []uint32{ImageHeaderTableVersion}

// ImageHeaderTable anchors the image header chain. When Present is false every
// other field except RawVersion is zero.
type ImageHeaderTable struct {
	Present bool

	// RawVersion is the word found at the table offset, kept even when it is
	// not an accepted sentinel. It is zero if the region is truncated.
	RawVersion uint32

	Version                uint32
	CountImageHeaders      uint32
	OffsetPartitionHeader  int64
	OffsetFirstImageHeader int64
}

// ReadImageHeaderTable decodes the image header table. An unknown version or a
// table cut short by the end of the input yields an absent table, not an error.
// With no versions given, DefaultTableVersions is used.
func ReadImageHeaderTable(wr *WordReader, versions ...uint32) (ImageHeaderTable, error) {
	if len(versions) == 0 {
		versions = DefaultTableVersions
	}

	if err := wr.SeekTo(ImageHeaderTableOffset); err != nil {
		return ImageHeaderTable{}, err
	}

	version, err := wr.ReadWord()
	if errors.Is(err, ErrTruncatedInput) {
		return ImageHeaderTable{}, nil
	} else if err != nil {
		return ImageHeaderTable{}, eMsg(err, "reading image header table version")
	}

	if !slices.Contains(versions, version) {
		return ImageHeaderTable{RawVersion: version}, nil
	}

	fields, err := wr.ReadWords(3)
	if errors.Is(err, ErrTruncatedInput) {
		return ImageHeaderTable{RawVersion: version}, nil
	} else if err != nil {
		return ImageHeaderTable{}, eMsg(err, "reading image header table")
	}

	return ImageHeaderTable{
		Present:                true,
		RawVersion:             version,
		Version:                version,
		CountImageHeaders:      fields[0],
		OffsetPartitionHeader:  int64(fields[1]) * WordSize,
		OffsetFirstImageHeader: int64(fields[2]) * WordSize,
	}, nil
}
