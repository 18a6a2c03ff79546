package process

import (
	"encoding/hex"
	"fmt"
	"io"
)

// Encoding selects how StdProcess writes a success payload
type Encoding string

const (
	EncodingHex Encoding = "hex"
	EncodingRaw Encoding = "raw"
)

// StdProcess is the command-line host. The report is written to out: success
// payloads hex encoded (one line) or raw, error messages as text lines.
type StdProcess struct {
	reportGuard
	input    []byte
	out      io.Writer
	encoding Encoding
}

// NewStdProcess creates a host serving input and writing its report to out
func NewStdProcess(input []byte, out io.Writer, encoding Encoding) *StdProcess {
	if encoding != EncodingRaw {
		encoding = EncodingHex
	}
	return &StdProcess{
		input:    input,
		out:      out,
		encoding: encoding,
	}
}

// Inputs implements Process
func (p *StdProcess) Inputs() []byte {
	return p.input
}

// Success implements Process
func (p *StdProcess) Success(result []byte) error {
	if err := p.report(StatusSucceeded, result); err != nil {
		return err
	}

	var err error
	if p.encoding == EncodingRaw {
		_, err = p.out.Write(result)
	} else {
		_, err = fmt.Fprintln(p.out, hex.EncodeToString(result))
	}
	if err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// Error implements Process
func (p *StdProcess) Error(message []byte) error {
	if err := p.report(StatusFailed, message); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(p.out, "%s\n", message); err != nil {
		return fmt.Errorf("failed to write error report: %w", err)
	}
	return nil
}
