package main

import (
	"fmt"
	"os"
	"strings"
	"zynqboot"
)

// printWrap prints a decode error as its context and cause.
func printWrap(err error) {
	wrapped := zynqboot.GetErrors(err)
	err1 := wrapped[0]
	if strings.ContainsRune(err1, ';') {
		err1 = err1[:strings.IndexByte(err1, ';')]
	}

	fmt.Fprintf(os.Stderr, " ! Error %s!\n", err1)
	if len(wrapped) > 1 {
		fmt.Fprintf(os.Stderr, " ! %s\n", wrapped[1])
	}
}

// decodeImages decodes each input and writes its report. It returns false if
// any input failed; later inputs are still attempted unless a report cannot
// be written.
func decodeImages(inputs []string, rw *reportWriter, opts *zynqboot.Options) bool {
	ok := true

	for _, inputPath := range inputs {
		fmt.Fprintf(os.Stderr, " - Decoding %s\n", inputPath)

		if err := checkInputFile(inputPath); err != nil {
			printMsg(err, "verifying file")
			ok = false
			continue
		}

		image, err := zynqboot.Open(inputPath, opts)
		if err != nil {
			printWrap(err)
			ok = false
			continue
		}

		if !image.Table().Present {
			fmt.Fprintln(os.Stderr, " - No image header table, boot ROM header only")
		}

		if err := rw.write(newReport(inputPath, image, rw.allRegisters)); err != nil {
			printMsg(err, "writing report")
			return false
		}
	}

	return ok
}
