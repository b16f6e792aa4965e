// Package textio provides incremental text decoding helpers for streaming
// process output.
package textio

import (
	"unicode/utf8"
)

// LineDecoder incrementally converts a byte stream into discrete
// newline-delimited lines. Chunks may split multi-byte UTF-8 sequences or
// CRLF pairs at arbitrary positions; the decoder carries state across Write
// calls so lines come out identical to splitting the whole text at once.
// Runs of consecutive CR/LF characters count as a single line break, so
// CRLF input never produces empty lines.
type LineDecoder struct {
	remaining string
	carry     []byte
}

// NewLineDecoder creates a new line decoder
func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

func isTerminator(b byte) bool {
	return b == '\r' || b == '\n'
}

// Write decodes a chunk and returns all complete lines it finished.
// Text after the last terminator is held until a later Write or End.
func (d *LineDecoder) Write(chunk []byte) []string {
	buf := chunk
	if len(d.carry) > 0 {
		buf = append(d.carry, chunk...)
		d.carry = nil
	}

	// Hold back an incomplete trailing UTF-8 sequence for the next chunk.
	cut := len(buf)
	for i := len(buf) - 1; i >= 0 && len(buf)-i < utf8.UTFMax; i-- {
		if utf8.RuneStart(buf[i]) {
			if !utf8.FullRune(buf[i:]) {
				cut = i
			}
			break
		}
	}
	if cut < len(buf) {
		d.carry = append(d.carry, buf[cut:]...)
		buf = buf[:cut]
	}

	value := d.remaining + string(buf)
	d.remaining = ""

	var lines []string
	start := 0
	// A terminator run that began at the end of the previous chunk
	// continues here; leading terminators never open an empty line.
	for start < len(value) && isTerminator(value[start]) {
		start++
	}
	for i := start; i < len(value); i++ {
		if !isTerminator(value[i]) {
			continue
		}
		lines = append(lines, value[start:i])
		for i < len(value) && isTerminator(value[i]) {
			i++
		}
		start = i
		i--
	}
	d.remaining = value[start:]
	return lines
}

// WriteString decodes a string chunk, see Write.
func (d *LineDecoder) WriteString(chunk string) []string {
	return d.Write([]byte(chunk))
}

// End flushes the decoder and returns the trailing partial line, if any.
func (d *LineDecoder) End() (string, bool) {
	if len(d.carry) > 0 {
		// Incomplete sequence at stream end; emit the raw bytes as-is.
		d.remaining += string(d.carry)
		d.carry = nil
	}
	line := d.remaining
	d.remaining = ""
	if line == "" {
		return "", false
	}
	return line, true
}
