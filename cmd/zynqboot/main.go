package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"zynqboot"

	"github.com/mattn/go-isatty"

	flag "github.com/spf13/pflag"
)

func printMsg(err error, msg string) {
	fmt.Fprintf(os.Stderr, " ! Error %s!\n", msg)
	fmt.Fprintf(os.Stderr, " ! %s\n", err.Error())
}

// parseVersions parses table version sentinels given in any strconv base
// prefix form, e.g. 0x01010000.
func parseVersions(values []string) ([]uint32, error) {
	versions := make([]uint32, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid table version %q: %w", v, err)
		}
		versions = append(versions, uint32(n))
	}

	return versions, nil
}

func main() {
	os.Exit(run())
}

// run returns the process exit status so deferred cleanup happens before exit.
func run() int {
	var inputPath string
	var outputPath string
	var format string
	var acceptVersions []string
	var allRegisters bool
	var verbose bool

	flag.StringVarP(&inputPath, "input", "i", "", "Path to the boot image to decode.")
	flag.StringVarP(&outputPath, "output", "o", "", "Path to write the report to (default stdout).")
	flag.StringVarP(&format, "format", "f", formatText, "Report format: text, yaml or json.")
	flag.StringSliceVar(&acceptVersions, "accept-version", []string{fmt.Sprintf("%#x", zynqboot.ImageHeaderTableVersion)},
		"Image header table version sentinels to accept.")
	flag.BoolVarP(&allRegisters, "all-registers", "a", false, "Report all 256 register pairs, not just those before the terminator.")
	flag.BoolVarP(&verbose, "verbose", "v", false, "Log decoding details to stderr.")

	flag.ErrHelp = errors.New("")
	flag.Parse()

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	inputs := flag.Args()
	if inputPath != "" {
		inputs = append([]string{inputPath}, inputs...)
	}

	if len(inputs) == 0 {
		fmt.Println("Usage: zynqboot {-f format} {-o output} [input...]")
		flag.PrintDefaults()
		if !interactive {
			return 2
		}

		defer func() {
			fmt.Print("\n\nPress any key to continue...")
			reader := bufio.NewReader(os.Stdin)
			reader.ReadRune()
		}()

		path, ok := cliGetInputPath()
		if !ok {
			return 2
		}
		inputs = []string{path}
	}

	versions, err := parseVersions(acceptVersions)
	if err != nil {
		printMsg(err, "parsing --accept-version")
		return 2
	}

	opts := &zynqboot.Options{TableVersions: versions}
	if verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
		if err != nil {
			printMsg(err, "creating output file")
			return 2
		}
		defer f.Close()
		out = f
	}

	rw, err := newReportWriter(out, format, allRegisters)
	if err != nil {
		printMsg(err, "preparing report")
		return 2
	}

	ok := decodeImages(inputs, rw, opts)
	if err := rw.close(); err != nil {
		printMsg(err, "finishing report")
		return 2
	}

	if !ok {
		return 2
	}
	return 0
}
