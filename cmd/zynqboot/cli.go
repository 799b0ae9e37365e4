package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"zynqboot"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

const (
	cliWelcome = `
Please drag and drop the boot image (BOOT.BIN) you want
to inspect into this window.

After you drop the file, press the [Enter] key to continue.

> `
	cliStatError = `
An error occurred verifying that file:
"%s"

Try dragging and dropping a boot image you are able
to open.

> `
)

// promptColumns returns the width prompts are wrapped to.
func promptColumns() int {
	cols := 60
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < cols {
		cols = w
	}
	return cols
}

func cliPrompt(msg string) {
	wrapped := ansi.Wordwrap(msg, promptColumns(), "")

	fmt.Printf(`
%s

> `, wrapped)
}

func cliPromptDrag(msg string) {
	cliPrompt(msg + " Try dragging and dropping a boot image here.")
}

var (
	errInputIsDir    = errors.New("input is a directory")
	errInputTooSmall = errors.New("input is too small to hold a boot ROM header")
)

// hasCompressorMagic reports whether the file at path starts with the magic of
// a compressor zynqboot.DetectCompressor knows.
func hasCompressorMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, 8)
	n, err := io.ReadFull(f, magic)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}

	return zynqboot.DetectCompressor(magic[:n]) != zynqboot.CompNone, nil
}

// checkInputFile rejects paths that cannot hold a boot image before they are
// decoded. Compressed files are exempt from the size check.
func checkInputFile(path string) error {
	fInfo, err := os.Stat(path)
	if err != nil {
		return err
	}

	if fInfo.IsDir() {
		return errInputIsDir
	}
	if fInfo.Size() >= zynqboot.BootROMHeaderSize {
		return nil
	}

	compressed, err := hasCompressorMagic(path)
	if err != nil {
		return err
	}
	if !compressed {
		return fmt.Errorf("%w (%d bytes, need %d)", errInputTooSmall, fInfo.Size(), zynqboot.BootROMHeaderSize)
	}

	return nil
}

// cliGetInputPath asks for an input path until a plausible boot image is
// given. It returns false if stdin is closed first.
func cliGetInputPath() (string, bool) {
	fmt.Print(cliWelcome)
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		path := strings.Trim(strings.TrimSpace(scanner.Text()), `"'`)
		if len(path) == 0 {
			cliPromptDrag("That wasn't the path to a file.")
			continue
		}

		err := checkInputFile(path)
		switch {
		case err == nil:
			fmt.Println()
			return path, true
		case os.IsNotExist(err):
			cliPromptDrag("That file doesn't exist.")
		case errors.Is(err, errInputIsDir):
			cliPromptDrag("That's a folder, not a file.")
		case errors.Is(err, errInputTooSmall):
			cliPromptDrag("That file is too small to be a boot image.")
		default:
			fmt.Printf(cliStatError, err.Error())
		}
	}

	fmt.Println()
	return "", false
}
