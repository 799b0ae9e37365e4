package zynqboot

// Boot ROM header layout (UG585, "BootROM Header").
const (
	InterruptVectorCount = 8
	RegisterCount        = 256

	// RegisterInitOffset is where the register initialization pairs start.
	// Bytes 0x04c-0x09f between the checksum and this offset are unused.
	RegisterInitOffset = 0x0a0

	// BootROMHeaderSize is the size of the mandatory region: the fixed fields,
	// padding and every register pair.
	BootROMHeaderSize = RegisterInitOffset + RegisterCount*2*WordSize

	// fixedFieldCount covers width detection through the header checksum.
	fixedFieldCount = 11
)

// RegisterTerminator marks the end of the used register pairs. Pairs after it
// are still decoded.
var RegisterTerminator = RegisterPair{Address: 0xffffffff, Value: 0}

// RegisterPair is one register initialization entry.
type RegisterPair struct {
	Address uint32
	Value   uint32
}

// BootROMHeader is the fixed header consumed by the boot ROM.
type BootROMHeader struct {
	InterruptVectors [InterruptVectorCount]uint32

	WidthDetection   uint32
	ImageID          uint32
	EncryptionStatus uint32
	UserDefined      uint32
	SourceOffset     uint32
	LengthOfImage    uint32
	Reserved1        uint32
	StartOfExecution uint32
	TotalImageLength uint32
	Reserved2        uint32
	HeaderChecksum   uint32

	Registers [RegisterCount]RegisterPair
}

// ReadBootROMHeader decodes the boot ROM header at the start of the input.
// Either the whole header is returned or an error; the stored checksum is
// not verified.
func ReadBootROMHeader(wr *WordReader) (*BootROMHeader, error) {
	if err := wr.SeekTo(0); err != nil {
		return nil, err
	}

	vectors, err := wr.ReadWords(InterruptVectorCount)
	if err != nil {
		return nil, eMsg(err, "reading interrupt vectors")
	}

	fields, err := wr.ReadWords(fixedFieldCount)
	if err != nil {
		return nil, eMsg(err, "reading header fields")
	}

	h := &BootROMHeader{
		WidthDetection:   fields[0],
		ImageID:          fields[1],
		EncryptionStatus: fields[2],
		UserDefined:      fields[3],
		SourceOffset:     fields[4],
		LengthOfImage:    fields[5],
		Reserved1:        fields[6],
		StartOfExecution: fields[7],
		TotalImageLength: fields[8],
		Reserved2:        fields[9],
		HeaderChecksum:   fields[10],
	}
	copy(h.InterruptVectors[:], vectors)

	if err := wr.SeekTo(RegisterInitOffset); err != nil {
		return nil, err
	}

	regs, err := wr.ReadWords(RegisterCount * 2)
	if err != nil {
		return nil, eMsg(err, "reading register initialization")
	}

	for i := range h.Registers {
		h.Registers[i] = RegisterPair{Address: regs[2*i], Value: regs[2*i+1]}
	}

	return h, nil
}

// ActiveRegisters returns the register pairs before the first terminator.
func (h *BootROMHeader) ActiveRegisters() []RegisterPair {
	for i, reg := range h.Registers {
		if reg == RegisterTerminator {
			return h.Registers[:i:i]
		}
	}

	return h.Registers[:]
}

// ComputeChecksum returns the checksum the boot ROM expects: the bitwise
// inverse of the sum of the words from width detection through the second
// reserved word.
func (h *BootROMHeader) ComputeChecksum() uint32 {
	words := [...]uint32{
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
	}

	var sum uint32
	for _, w := range words {
		sum += w
	}

	return ^sum
}

// ChecksumValid reports whether the stored checksum matches ComputeChecksum.
func (h *BootROMHeader) ChecksumValid() bool {
	return h.HeaderChecksum == h.ComputeChecksum()
}
