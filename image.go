package zynqboot

import "log/slog"

// Options configures decoding. The zero value and nil are both valid.
type Options struct {
	// TableVersions is the set of accepted image header table sentinels.
	// Empty means DefaultTableVersions.
	TableVersions []uint32

	// Logger receives debug records about the decode. Nil means slog.Default().
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) tableVersions() []uint32 {
	if o == nil || len(o.TableVersions) == 0 {
		return DefaultTableVersions
	}
	return o.TableVersions
}

// BootImage represents the decoded contents of a boot image. It is not
// modified after decoding; accessors return copies.
type BootImage struct {
	header BootROMHeader
	table  ImageHeaderTable
	images []ImageHeader
	size   int64
	digest uint64
	compr  int
}

// Header returns the boot ROM header.
func (img *BootImage) Header() BootROMHeader {
	return img.header
}

// Table returns the image header table. Table().Present is false for images
// without one.
func (img *BootImage) Table() ImageHeaderTable {
	return img.table
}

// ImageHeaders returns the image header chain in chain order.
func (img *BootImage) ImageHeaders() []ImageHeader {
	images := make([]ImageHeader, len(img.images))
	copy(images, img.images)
	return images
}

// Size returns the size in bytes of the decoded (decompressed) input.
func (img *BootImage) Size() int64 {
	return img.size
}

// Digest returns the xxhash64 of the decoded (decompressed) input.
func (img *BootImage) Digest() uint64 {
	return img.digest
}

// Compression returns the compression mode the input was wrapped in.
func (img *BootImage) Compression() int {
	return img.compr
}
