package vawthil

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialChannel adapts a serial port to the LineChannel contract. Reads are
// bounded by the configured timeout so a stalled controller can never stall
// the plant loop.
type SerialChannel struct {
	port    *serial.Port
	timeout time.Duration
}

// OpenSerial opens the named port. readTimeout bounds each ReadLine call.
func OpenSerial(name string, baud int, readTimeout time.Duration) (*SerialChannel, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", name, err)
	}
	return &SerialChannel{port: port, timeout: readTimeout}, nil
}

// ReadLine reads one newline-terminated line, without the terminator. If no
// complete line arrives within the timeout it returns ErrReadTimeout.
func (s *SerialChannel) ReadLine() (string, error) {
	deadline := time.Now().Add(s.timeout)
	buf := make([]byte, 1)
	var line []byte

	for {
		n, err := s.port.Read(buf)
		switch {
		case err == io.EOF || (err == nil && n == 0):
			// the port's own timeout expired with no byte
			if time.Now().After(deadline) {
				return "", ErrReadTimeout
			}
			continue
		case err != nil:
			return "", fmt.Errorf("serial read: %w", err)
		}

		if buf[0] == '\n' {
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			return string(line), nil
		}
		line = append(line, buf[0])

		if time.Now().After(deadline) {
			return "", ErrReadTimeout
		}
	}
}

// WriteLine sends one line, appending the newline terminator.
func (s *SerialChannel) WriteLine(line string) error {
	if _, err := s.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Close releases the port.
func (s *SerialChannel) Close() error {
	return s.port.Close()
}
