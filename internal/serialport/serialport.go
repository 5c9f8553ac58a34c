// Package serialport opens the serial line described by the configuration.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tarm/serial"

	"github.com/moffa90/go-iec101/internal/config"
)

// Port is a serial port on which a read timeout yields an empty read.
//
// tarm/serial surfaces an expired VTIME read as io.EOF on POSIX systems;
// link.Conn expects (0, nil) there and keeps waiting until its own timeout.
type Port struct {
	rwc io.ReadWriteCloser
}

// Open opens the serial port described by cfg.
func Open(cfg config.SerialConfig) (*Port, error) {
	sc, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	return &Port{rwc: p}, nil
}

// Options converts cfg to the tarm/serial configuration.
func Options(cfg config.SerialConfig) (*serial.Config, error) {
	var parity serial.Parity
	switch strings.ToUpper(cfg.Parity) {
	case "N", "":
		parity = serial.ParityNone
	case "E":
		parity = serial.ParityEven
	case "O":
		parity = serial.ParityOdd
	default:
		return nil, fmt.Errorf("unsupported parity %q", cfg.Parity)
	}

	var stop serial.StopBits
	switch cfg.StopBits {
	case 1, 0:
		stop = serial.Stop1
	case 2:
		stop = serial.Stop2
	default:
		return nil, fmt.Errorf("unsupported stop bits %d", cfg.StopBits)
	}

	return &serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeoutDuration(),
		Size:        byte(cfg.DataBits),
		Parity:      parity,
		StopBits:    stop,
	}, nil
}

func (p *Port) Read(b []byte) (int, error) {
	n, err := p.rwc.Read(b)
	if errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

func (p *Port) Write(b []byte) (int, error) {
	return p.rwc.Write(b)
}

func (p *Port) Close() error {
	return p.rwc.Close()
}
