// Package sfv implements RFC 8941 Structured Field Values: the dictionary,
// list, and item grammar shared by Content-Digest, Signature-Input, and the
// other structured HTTP fields this module parses.
package sfv

import "fmt"

// Parser is a byte-offset scanner over one structured field value. It never
// copies data: data is the caller's string, offset walks across it.
type Parser struct {
	data   string
	offset int
	limits Limits // size limits, guarding against pathological inputs
}

// NewParser returns a parser positioned at the start of data. Use
// DefaultLimits() unless the input is already known-trusted.
func NewParser(data string, limits Limits) *Parser {
	return &Parser{
		data:   data,
		offset: 0,
		limits: limits,
	}
}

// peek returns the byte at the current offset, or 0 at EOF.
func (p *Parser) peek() byte {
	if p.offset >= len(p.data) {
		return 0 // EOF
	}
	return p.data[p.offset]
}

// consume advances past the current byte and returns true if it equals
// expected; otherwise the offset is left unchanged and it returns false.
func (p *Parser) consume(expected byte) bool {
	if p.peek() == expected {
		p.offset++
		return true
	}
	return false
}

// skipOWS skips RFC 8941 optional whitespace (SP or HTAB), as found between
// dictionary entries.
func (p *Parser) skipOWS() {
	for p.offset < len(p.data) {
		c := p.data[p.offset]
		if c == ' ' || c == '\t' {
			p.offset++
		} else {
			break
		}
	}
}

// skipSP skips SP only, not HTAB, as RFC 8941 §4.2.1.2 requires inside an
// inner list.
func (p *Parser) skipSP() {
	for p.offset < len(p.data) && p.data[p.offset] == ' ' {
		p.offset++
	}
}

func (p *Parser) isEOF() bool {
	return p.offset >= len(p.data)
}

// getContext returns up to 40 characters of input centered on the current
// offset, for embedding in a ParseError.
func (p *Parser) getContext() string {
	start := p.offset - 20
	if start < 0 {
		start = 0
	}
	end := p.offset + 20
	if end > len(p.data) {
		end = len(p.data)
	}

	context := p.data[start:end]
	if start > 0 {
		context = "..." + context
	}
	if end < len(p.data) {
		context = context + "..."
	}

	return context
}

// ParseError reports where in the input a structured field failed to parse.
type ParseError struct {
	Offset  int
	Message string
	Context string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s (near: %q)", e.Offset, e.Message, e.Context)
}

func (p *Parser) newParseError(message string) *ParseError {
	return &ParseError{
		Offset:  p.offset,
		Message: message,
		Context: p.getContext(),
	}
}

// checkInputLength rejects input longer than limits.MaxInputLength; callers
// invoke it once at the start of each top-level parse.
func (p *Parser) checkInputLength() error {
	if p.limits.MaxInputLength > 0 && len(p.data) > p.limits.MaxInputLength {
		return p.newParseError(fmt.Sprintf("input length %d exceeds limit %d",
			len(p.data), p.limits.MaxInputLength))
	}
	return nil
}
