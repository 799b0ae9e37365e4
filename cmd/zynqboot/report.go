package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"zynqboot"

	"gopkg.in/yaml.v3"
)

// Report formats
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// labelWidth matches the column the text report aligns values to.
const labelWidth = 45

type registerReport struct {
	Address string `yaml:"address" json:"address"`
	Value   string `yaml:"value" json:"value"`
}

type headerReport struct {
	InterruptVectors []string         `yaml:"interruptVectors" json:"interruptVectors"`
	WidthDetection   string           `yaml:"widthDetection" json:"widthDetection"`
	ImageID          string           `yaml:"imageID" json:"imageID"`
	EncryptionStatus string           `yaml:"encryptionStatus" json:"encryptionStatus"`
	UserDefined      string           `yaml:"userDefined" json:"userDefined"`
	SourceOffset     string           `yaml:"sourceOffset" json:"sourceOffset"`
	LengthOfImage    string           `yaml:"lengthOfImage" json:"lengthOfImage"`
	StartOfExecution string           `yaml:"startOfExecution" json:"startOfExecution"`
	TotalImageLength string           `yaml:"totalImageLength" json:"totalImageLength"`
	HeaderChecksum   string           `yaml:"headerChecksum" json:"headerChecksum"`
	ChecksumValid    bool             `yaml:"checksumValid" json:"checksumValid"`
	Registers        []registerReport `yaml:"registers" json:"registers"`
}

type tableReport struct {
	Version                string `yaml:"version" json:"version"`
	CountImageHeaders      string `yaml:"countImageHeaders" json:"countImageHeaders"`
	OffsetPartitionHeader  string `yaml:"offsetPartitionHeader" json:"offsetPartitionHeader"`
	OffsetFirstImageHeader string `yaml:"offsetFirstImageHeader" json:"offsetFirstImageHeader"`
}

type imageReport struct {
	Offset                     string `yaml:"offset" json:"offset"`
	OffsetNextImageHeader      string `yaml:"offsetNextImageHeader" json:"offsetNextImageHeader"`
	OffsetFirstPartitionHeader string `yaml:"offsetFirstPartitionHeader" json:"offsetFirstPartitionHeader"`
	PartitionCount             string `yaml:"partitionCount" json:"partitionCount"`
	ImageNameLength            string `yaml:"imageNameLength" json:"imageNameLength"`
	Name                       string `yaml:"name" json:"name"`
}

// report is the serializable form of one decoded boot image.
type report struct {
	File        string        `yaml:"file" json:"file"`
	Size        int64         `yaml:"size" json:"size"`
	Digest      string        `yaml:"digest" json:"digest"`
	Compression string        `yaml:"compression" json:"compression"`
	Header      headerReport  `yaml:"bootROMHeader" json:"bootROMHeader"`
	Table       *tableReport  `yaml:"imageHeaderTable,omitempty" json:"imageHeaderTable,omitempty"`
	Images      []imageReport `yaml:"imageHeaders,omitempty" json:"imageHeaders,omitempty"`
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

func hexOffset(v int64) string {
	return fmt.Sprintf("0x%08x", v)
}

// newReport flattens img. Unless allRegisters is set, register pairs stop at
// the first terminator.
func newReport(file string, img *zynqboot.BootImage, allRegisters bool) *report {
	hdr := img.Header()

	regs := hdr.ActiveRegisters()
	if allRegisters {
		regs = hdr.Registers[:]
	}

	hr := headerReport{
		WidthDetection:   hex32(hdr.WidthDetection),
		ImageID:          hex32(hdr.ImageID),
		EncryptionStatus: hex32(hdr.EncryptionStatus),
		UserDefined:      hex32(hdr.UserDefined),
		SourceOffset:     hex32(hdr.SourceOffset),
		LengthOfImage:    hex32(hdr.LengthOfImage),
		StartOfExecution: hex32(hdr.StartOfExecution),
		TotalImageLength: hex32(hdr.TotalImageLength),
		HeaderChecksum:   hex32(hdr.HeaderChecksum),
		ChecksumValid:    hdr.ChecksumValid(),
		Registers:        make([]registerReport, 0, len(regs)),
	}
	for _, v := range hdr.InterruptVectors {
		hr.InterruptVectors = append(hr.InterruptVectors, hex32(v))
	}
	for _, reg := range regs {
		hr.Registers = append(hr.Registers, registerReport{Address: hex32(reg.Address), Value: hex32(reg.Value)})
	}

	r := &report{
		File:        file,
		Size:        img.Size(),
		Digest:      fmt.Sprintf("%016x", img.Digest()),
		Compression: zynqboot.CompressorName(img.Compression()),
		Header:      hr,
	}

	table := img.Table()
	if !table.Present {
		return r
	}

	r.Table = &tableReport{
		Version:                hex32(table.Version),
		CountImageHeaders:      hex32(table.CountImageHeaders),
		OffsetPartitionHeader:  hexOffset(table.OffsetPartitionHeader),
		OffsetFirstImageHeader: hexOffset(table.OffsetFirstImageHeader),
	}

	for _, ih := range img.ImageHeaders() {
		r.Images = append(r.Images, imageReport{
			Offset:                     hexOffset(ih.Offset),
			OffsetNextImageHeader:      hexOffset(ih.OffsetNextImageHeader),
			OffsetFirstPartitionHeader: hexOffset(ih.OffsetFirstPartitionHeader),
			PartitionCount:             hex32(ih.PartitionCount),
			ImageNameLength:            hex32(ih.ImageNameLength),
			Name:                       ih.DisplayName(),
		})
	}

	return r
}

// writeText writes r in the column layout of the boot image dump.
func writeText(w io.Writer, r *report, allRegisters bool) error {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%-*s: %s\n", labelWidth, label, value)
	}

	fmt.Fprintf(&b, "# %s (%d bytes, compression %s, xxhash %s)\n", r.File, r.Size, r.Compression, r.Digest)

	h := r.Header
	b.WriteString("<BootROMHeader>\n")
	field("Reserved for Interrupts", strings.Join(h.InterruptVectors, " "))
	field("Width Detection", h.WidthDetection)
	field("Image Identification", h.ImageID)
	field("Encryption Status", h.EncryptionStatus)
	field("User Defined", h.UserDefined)
	field("Source Offset", h.SourceOffset)
	field("Length of Image", h.LengthOfImage)
	field("Start of Execution", h.StartOfExecution)
	field("Total Image Length", h.TotalImageLength)
	checksum := h.HeaderChecksum
	if !h.ChecksumValid {
		checksum += " (mismatch)"
	}
	field("Header Checksum", checksum)
	fmt.Fprintf(&b, "%-*s\n", labelWidth, "Register Initialization")
	for _, reg := range h.Registers {
		fmt.Fprintf(&b, "\t%s = %s\n", reg.Address, reg.Value)
	}
	if !allRegisters && len(h.Registers) < zynqboot.RegisterCount {
		b.WriteString("\t<no more registers>\n")
	}

	if r.Table != nil {
		b.WriteString("\n<ImageHeaderTable>\n")
		field("Version", r.Table.Version)
		field("Count Image Headers", r.Table.CountImageHeaders)
		field("Offset Partition Header", r.Table.OffsetPartitionHeader)
		field("Offset First Image Header", r.Table.OffsetFirstImageHeader)

		for _, ih := range r.Images {
			b.WriteString("\n<ImageHeader>\n")
			field("Offset", ih.Offset)
			field("Offset next image header", ih.OffsetNextImageHeader)
			field("Offset first partition header", ih.OffsetFirstPartitionHeader)
			field("Partition count (not used, must be 0)", ih.PartitionCount)
			field("Image name length (actual partition count)", ih.ImageNameLength)
			field("Image name", ih.Name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// reportWriter writes reports for one or more images in a single format.
type reportWriter struct {
	w            io.Writer
	format       string
	allRegisters bool
	yaml         *yaml.Encoder
	json         *json.Encoder
	count        int
}

func newReportWriter(w io.Writer, format string, allRegisters bool) (*reportWriter, error) {
	rw := &reportWriter{w: w, format: format, allRegisters: allRegisters}

	switch format {
	case formatText:
	case formatYAML:
		rw.yaml = yaml.NewEncoder(w)
		rw.yaml.SetIndent(2)
	case formatJSON:
		rw.json = json.NewEncoder(w)
		rw.json.SetIndent("", "  ")
	default:
		return nil, fmt.Errorf("unknown report format %q (want %s, %s or %s)", format, formatText, formatYAML, formatJSON)
	}

	return rw, nil
}

func (rw *reportWriter) write(r *report) error {
	rw.count++

	switch rw.format {
	case formatYAML:
		return rw.yaml.Encode(r)
	case formatJSON:
		return rw.json.Encode(r)
	}

	if rw.count > 1 {
		if _, err := io.WriteString(rw.w, "\n"); err != nil {
			return err
		}
	}
	return writeText(rw.w, r, rw.allRegisters)
}

func (rw *reportWriter) close() error {
	if rw.yaml != nil {
		return rw.yaml.Close()
	}
	return nil
}
