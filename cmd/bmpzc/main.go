// bmpzc losslessly compresses and decompresses 24-bit uncompressed BMP
// images using the bmpzc package's header/residual/bit-transpose/
// zero-elimination pipeline.
//
// Usage:
//
//	bmpzc encode [-entropy] <input.bmp> <output.bmpz>
//	bmpzc decode <input.bmpz> <output.bmp>
//
// Options:
//
//	-entropy   Wrap the zero-eliminated payload in a zlib stream.
//	-h, --help Show this help message.
//
// Exit codes:
//
//	0: success
//	1: compression/decompression error
//	2: usage error (bad arguments, file not found)
package main

import (
	"fmt"
	"os"

	"github.com/mrjoshuak/bmpzc"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "encode":
		os.Exit(runEncode(os.Args[2:]))
	case "decode":
		os.Exit(runDecode(os.Args[2:]))
	case "-h", "--help":
		printUsage()
		os.Exit(0)
	case "--version":
		fmt.Printf("bmpzc version %s\n", version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`Usage: bmpzc <command> [options] <input> <output>

Commands:
  encode   Compress a 24bpp uncompressed BMP into a .bmpz container
  decode   Expand a .bmpz container back into a BMP

Options:
  -entropy      (encode only) zlib-wrap the zero-eliminated payload
  -h, --help    Show this help message
  --version     Show version information

Examples:
  bmpzc encode photo.bmp photo.bmpz
  bmpzc encode -entropy photo.bmp photo.bmpz
  bmpzc decode photo.bmpz photo.bmp`)
}

func runEncode(args []string) int {
	entropy := false
	files := make([]string, 0, 2)
	for _, a := range args {
		switch a {
		case "-entropy":
			entropy = true
		default:
			files = append(files, a)
		}
	}
	if len(files) != 2 {
		fmt.Fprintln(os.Stderr, "encode: expected <input.bmp> <output.bmpz>")
		return 2
	}
	in, out := files[0], files[1]

	buf, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return 2
	}

	enc, stats, err := bmpzc.Compress(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return 1
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return 2
	}
	defer f.Close()

	if err := writeContainer(f, enc, entropy); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return 1
	}

	fmt.Printf("%s: %d -> %d bytes (ratio %.3f)\n", in, stats.OriginalSize,
		stats.HeaderSize+stats.DenseSize+stats.BitmapSize, stats.Ratio)
	return 0
}

func runDecode(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "decode: expected <input.bmpz> <output.bmp>")
		return 2
	}
	in, out := args[0], args[1]

	f, err := os.Open(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		return 2
	}
	defer f.Close()

	enc, err := readContainer(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		return 1
	}

	buf, err := bmpzc.Decompress(enc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		return 1
	}

	if err := os.WriteFile(out, buf, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		return 2
	}

	fmt.Printf("%s: %d bytes written\n", out, len(buf))
	return 0
}
