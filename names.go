package zynqboot

import (
	"bytes"

	"go4.org/bytereplacer"
)

// nameEscaper renders the control bytes bootgen leaves in image names.
var nameEscaper = bytereplacer.New(
	"\x00", `\x00`,
	"\t", `\t`,
	"\r", `\r`,
	"\n", `\n`,
	"\\", `\\`,
)

// DisplayName returns the image name with trailing NUL padding removed and
// remaining control bytes escaped.
func (h *ImageHeader) DisplayName() string {
	name := bytes.TrimRight([]byte(h.Name), "\x00")
	return string(nameEscaper.Replace(name))
}
