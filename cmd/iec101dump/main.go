// Command iec101dump decodes the link frames of a line capture.
//
//	iec101dump [-dir rx|tx|any] [-address-size 1|2] capture.trace
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/moffa90/go-iec101/internal/logging"
	"github.com/moffa90/go-iec101/link"
	"github.com/moffa90/go-iec101/protocol"
	"github.com/moffa90/go-iec101/trace"
)

func main() {
	dirFlag := flag.String("dir", "any", "direction to decode: rx, tx or any")
	addressSize := flag.Int("address-size", 1, "link address width in octets")
	logLevel := flag.String("log-level", "warn", "log level for rejected frames")
	flag.Parse()

	logger := logging.Configure("iec101dump", logging.Config{Level: *logLevel})

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: iec101dump [flags] capture.trace")
		os.Exit(2)
	}

	dir, ok := trace.ParseDirection(*dirFlag)
	if !ok {
		log.Fatal().Str("dir", *dirFlag).Msg("unknown direction")
	}
	size := protocol.AddressSize(*addressSize)
	if !size.Valid() {
		log.Fatal().Int("address_size", *addressSize).Msg("address size must be 1 or 2")
	}

	capture, err := trace.Parse(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Str("path", flag.Arg(0)).Msg("failed to parse capture")
	}
	log.Debug().Int("records", len(capture.Records)).Int("octets", capture.Len()).Msg("capture loaded")

	n, err := dump(os.Stdout, capture.Stream(dir), size, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("dump failed")
	}
	log.Info().Int("frames", n).Msg("done")
}

// replay is a read-only line fed from a capture.
type replay struct {
	io.Reader
}

func (replay) Write(p []byte) (int, error) { return len(p), nil }

// dump decodes data and prints one line per frame to w.
// It returns the number of frames printed.
func dump(w io.Writer, data []byte, size protocol.AddressSize, logger zerolog.Logger) (int, error) {
	conn := link.New(replay{bytes.NewReader(data)},
		link.WithAddressSize(size),
		link.WithTimeout(0),
		link.WithLogger(logging.NewLinkLogger(logger)),
	)

	n := 0
	for {
		f, err := conn.ReadFrame(context.Background())
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			logger.Warn().Msg("capture ends inside a frame")
			return n, nil
		}
		if err != nil {
			return n, err
		}

		n++
		if _, err := fmt.Fprintf(w, "%4d %s\n", n, describe(f)); err != nil {
			return n, err
		}
	}
}

// describe renders a frame with its decoded control field.
func describe(f protocol.Frame) string {
	var fn string
	if p, ok := f.Control.Primary(); ok {
		fn = p.Function.String()
		if fcb, ok := f.FrameCountBit(); ok {
			fn += fmt.Sprintf(" fcb=%d", boolInt(fcb))
		}
	} else if s, ok := f.Control.Secondary(); ok {
		fn = s.Function.String()
		if s.ACD {
			fn += " acd"
		}
		if s.DFC {
			fn += " dfc"
		}
	}

	line := fmt.Sprintf("%-6s addr=%-5d %s", f.Control.Direction(), f.Address, fn)
	if f.HasPayload() {
		line += fmt.Sprintf(" asdu=% X", f.Payload)
	}
	return line
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
