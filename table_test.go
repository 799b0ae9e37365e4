package zynqboot

import (
	"testing"
)

func TestReadImageHeaderTablePresent(t *testing.T) {
	ti := newTestImage(0x1000)
	ti.putTable(ImageHeaderTableVersion, 3, 0xc80, 0x900)

	wr := ti.reader(t)
	table, err := ReadImageHeaderTable(wr)
	if err != nil {
		t.Fatalf("ReadImageHeaderTable returned error: %v", err)
	}

	want := ImageHeaderTable{
		Present:                true,
		RawVersion:             ImageHeaderTableVersion,
		Version:                ImageHeaderTableVersion,
		CountImageHeaders:      3,
		OffsetPartitionHeader:  0xc80,
		OffsetFirstImageHeader: 0x900,
	}
	if table != want {
		t.Fatalf("ReadImageHeaderTable = %+v, want %+v", table, want)
	}
	if wr.Offset() != ImageHeaderTableOffset+16 {
		t.Fatalf("Offset = %#x, want %#x", wr.Offset(), ImageHeaderTableOffset+16)
	}
}

func TestReadImageHeaderTableScalesOffsets(t *testing.T) {
	ti := newTestImage(0x1000)
	ti.putWord(ImageHeaderTableOffset, ImageHeaderTableVersion)
	ti.putWord(ImageHeaderTableOffset+8, 0x320)
	ti.putWord(ImageHeaderTableOffset+12, 0xffffffff)

	table, err := ReadImageHeaderTable(ti.reader(t))
	if err != nil {
		t.Fatalf("ReadImageHeaderTable returned error: %v", err)
	}
	if table.OffsetPartitionHeader != 0xc80 {
		t.Fatalf("OffsetPartitionHeader = %#x, want %#x", table.OffsetPartitionHeader, 0xc80)
	}
	if table.OffsetFirstImageHeader != 0x3fffffffc {
		t.Fatalf("OffsetFirstImageHeader = %#x, want %#x", table.OffsetFirstImageHeader, int64(0x3fffffffc))
	}
}

func TestReadImageHeaderTableAbsent(t *testing.T) {
	for _, version := range []uint32{0, ImageHeaderTableVersionSwapped, 0x01020000, 0xffffffff} {
		ti := newTestImage(0x1000)
		ti.putTable(version, 3, 0xc80, 0x900)

		table, err := ReadImageHeaderTable(ti.reader(t))
		if err != nil {
			t.Fatalf("version %#x: ReadImageHeaderTable returned error: %v", version, err)
		}

		want := ImageHeaderTable{RawVersion: version}
		if table != want {
			t.Fatalf("version %#x: ReadImageHeaderTable = %+v, want %+v", version, table, want)
		}
	}
}

func TestReadImageHeaderTableAcceptedVersions(t *testing.T) {
	ti := newTestImage(0x1000)
	ti.putTable(ImageHeaderTableVersionSwapped, 1, 0xc80, 0x900)

	table, err := ReadImageHeaderTable(ti.reader(t), ImageHeaderTableVersion, ImageHeaderTableVersionSwapped)
	if err != nil {
		t.Fatalf("ReadImageHeaderTable returned error: %v", err)
	}
	if !table.Present {
		t.Fatalf("Present = false for an accepted alternate version")
	}
	if table.Version != ImageHeaderTableVersionSwapped {
		t.Fatalf("Version = %#x, want %#x", table.Version, ImageHeaderTableVersionSwapped)
	}

	table, err = ReadImageHeaderTable(ti.reader(t), ImageHeaderTableVersion)
	if err != nil {
		t.Fatalf("ReadImageHeaderTable returned error: %v", err)
	}
	if table.Present {
		t.Fatalf("Present = true for a version outside the accepted set")
	}
}

func TestReadImageHeaderTableTruncated(t *testing.T) {
	tests := []struct {
		name string
		size int
		want ImageHeaderTable
	}{
		{"ends at register region", BootROMHeaderSize, ImageHeaderTable{}},
		{"ends inside version", ImageHeaderTableOffset + 2, ImageHeaderTable{}},
		{"ends after version", ImageHeaderTableOffset + 8, ImageHeaderTable{RawVersion: ImageHeaderTableVersion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := newTestImage(0x1000)
			full.putTable(ImageHeaderTableVersion, 3, 0xc80, 0x900)
			ti := &testImage{buf: full.buf[:tt.size]}

			table, err := ReadImageHeaderTable(ti.reader(t))
			if err != nil {
				t.Fatalf("ReadImageHeaderTable returned error: %v", err)
			}
			if table != tt.want {
				t.Fatalf("ReadImageHeaderTable = %+v, want %+v", table, tt.want)
			}
		})
	}
}
