package zynqboot

import "fmt"

// ImageHeader is one node of the image header chain.
type ImageHeader struct {
	// Offset is the byte offset the header was decoded from.
	Offset int64

	// OffsetNextImageHeader is zero on the last header.
	OffsetNextImageHeader      int64
	OffsetFirstPartitionHeader int64

	// PartitionCount is reserved and should be zero; it is recorded as found.
	PartitionCount uint32
	// ImageNameLength holds the actual partition count.
	ImageNameLength uint32

	Name string
}

// ReadImageHeader decodes the image header at offset.
func ReadImageHeader(wr *WordReader, offset int64) (ImageHeader, error) {
	if err := wr.SeekTo(offset); err != nil {
		return ImageHeader{}, err
	}

	fields, err := wr.ReadWords(4)
	if err != nil {
		return ImageHeader{}, err
	}

	name, err := wr.ReadBigEndianString()
	if err != nil {
		return ImageHeader{}, eMsg(err, "reading image name")
	}

	return ImageHeader{
		Offset:                     offset,
		OffsetNextImageHeader:      int64(fields[0]) * WordSize,
		OffsetFirstPartitionHeader: int64(fields[1]) * WordSize,
		PartitionCount:             fields[2],
		ImageNameLength:            fields[3],
		Name:                       name,
	}, nil
}

// ReadImageHeaders follows the chain from start until a zero next offset and
// returns the headers in chain order. A start of zero is an empty chain.
// Revisiting an offset or pointing outside the input fails with
// ErrMalformedChain.
func ReadImageHeaders(wr *WordReader, start int64) ([]ImageHeader, error) {
	var headers []ImageHeader
	visited := make(map[int64]bool)

	for next := start; next != 0; {
		if visited[next] {
			return nil, eDetail(ErrMalformedChain, "image header %d loops back to %#x", len(headers), next)
		}
		if next >= wr.Size() {
			return nil, eDetail(ErrMalformedChain, "image header %d at %#x is past end of input (%#x)", len(headers), next, wr.Size())
		}
		visited[next] = true

		hdr, err := ReadImageHeader(wr, next)
		if err != nil {
			return nil, eMsg(err, fmt.Sprintf("reading image header at %#x", next))
		}

		headers = append(headers, hdr)
		next = hdr.OffsetNextImageHeader
	}

	return headers, nil
}
