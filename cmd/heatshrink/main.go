// Command heatshrink compresses or decompresses a stream using the
// kickmaker/heatshrink codec.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/kickmaker/heatshrink/heatshrink"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "heatshrink:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("heatshrink", flag.ContinueOnError)

	decompress := fs.BoolP("decompress", "d", false, "decompress instead of compress")
	window := fs.Uint8P("window", "w", heatshrink.ProfileBalanced.WindowBits, "window bits (4-15)")
	lookahead := fs.Uint8P("lookahead", "l", heatshrink.ProfileBalanced.LookaheadBits, "lookahead bits (3-window)")
	useIndex := fs.Bool("index", true, "build the encoder search index")
	profileName := fs.String("profile", "", "named profile (tiny, balanced, ratio) overriding -w/-l/-index")
	profilePath := fs.String("profiles", "", "YAML file of additional named profiles")
	output := fs.StringP("output", "o", "-", "output path, or - for stdout")
	input := fs.StringP("input", "i", "-", "input path, or - for stdin")
	verbose := fs.BoolP("verbose", "v", false, "emit debug tracing on stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := heatshrink.Config{
		WindowBits:    *window,
		LookaheadBits: *lookahead,
		UseIndex:      *useIndex,
	}

	if *profileName != "" {
		var extras []heatshrink.Profile
		if *profilePath != "" {
			f, err := os.Open(*profilePath)
			if err != nil {
				return fmt.Errorf("open profiles file: %w", err)
			}
			defer f.Close()
			extras, err = heatshrink.ReadProfiles(f)
			if err != nil {
				return fmt.Errorf("read profiles file: %w", err)
			}
		}
		p, err := heatshrink.LoadProfile(*profileName, extras)
		if err != nil {
			return err
		}
		cfg = p.Config()
	}

	if *verbose {
		cfg.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	in, err := openInput(*input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var result []byte
	if *decompress {
		result, err = heatshrink.DecodeAll(cfg, data)
	} else {
		result, err = heatshrink.EncodeAll(cfg, data)
	}
	if err != nil {
		return err
	}

	if _, err := out.Write(result); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
