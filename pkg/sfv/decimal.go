package sfv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal represents an RFC 8941 Section 3.3.2 decimal: a signed number
// with at most 12 integer digits and at most 3 fractional digits. Unlike a
// float64, it stores the integer and fractional components separately so
// that parse-then-serialize round trips are exact.
type Decimal struct {
	intPart  int64
	frac     int16 // 0-999, always non-negative; sign lives in negative
	negative bool
}

// maxDecimalIntValue is 10^12 - 1, the largest integer component RFC 8941
// allows a decimal to carry.
const maxDecimalIntValue = 999_999_999_999

// NewDecimal builds a Decimal from a float64, rounding to 3 fractional
// digits with round-half-to-even. Returns an error if the value is not
// finite or its integer component would exceed 12 digits.
func NewDecimal(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, fmt.Errorf("sfv: decimal value must be finite")
	}

	negative := math.Signbit(f)
	abs := math.Abs(f)
	scaled := roundHalfEven(abs * 1000)

	intPart := int64(scaled) / 1000
	frac := int16(int64(scaled) % 1000)

	if intPart > maxDecimalIntValue {
		return Decimal{}, fmt.Errorf("sfv: decimal integer component exceeds 12 digits")
	}
	if intPart == 0 && frac == 0 {
		negative = false
	}

	return Decimal{intPart: intPart, frac: frac, negative: negative}, nil
}

// roundHalfEven rounds x to the nearest integer, breaking exact ties toward
// the even neighbor.
func roundHalfEven(x float64) float64 {
	floor := math.Floor(x)
	diff := x - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return floor
		}
		return floor + 1
	}
}

// Float64 returns the decimal's value as a float64.
func (d Decimal) Float64() float64 {
	v := float64(d.intPart) + float64(d.frac)/1000
	if d.negative {
		v = -v
	}
	return v
}

// IsNegative reports whether the decimal is negative.
func (d Decimal) IsNegative() bool {
	return d.negative
}

// String returns the RFC 8941 canonical serialization of the decimal:
// a sign (if negative), the integer component, a '.', and 1-3 fractional
// digits with trailing zeros trimmed down to a single digit.
func (d Decimal) String() string {
	fracStr := strconv.Itoa(int(d.frac))
	for len(fracStr) < 3 {
		fracStr = "0" + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		fracStr = "0"
	}

	sign := ""
	if d.negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%s", sign, d.intPart, fracStr)
}

// parseNumber parses an RFC 8941 Section 3.3.1/3.3.2 number: a signed
// sequence of digits, optionally followed by '.' and 1-3 more digits. It
// returns either an int64 (integer) or a Decimal, matching whichever
// grammar production the input satisfies.
func (p *Parser) parseNumber() (interface{}, error) {
	start := p.offset
	negative := false
	if p.peek() == '-' {
		negative = true
		p.offset++
	}

	if p.isEOF() || !isDigit(p.peek()) {
		return nil, p.newParseError("expected digit in number")
	}

	intDigitsStart := p.offset
	for p.offset < len(p.data) && isDigit(p.data[p.offset]) {
		p.offset++
		if p.offset-intDigitsStart > 15 {
			return nil, p.newParseError("number has too many integer digits")
		}
	}
	intDigits := p.data[intDigitsStart:p.offset]

	if p.offset < len(p.data) && p.data[p.offset] == '.' {
		if len(intDigits) > 12 {
			return nil, p.newParseError("decimal integer component exceeds 12 digits")
		}
		p.offset++ // consume '.'

		fracStart := p.offset
		for p.offset < len(p.data) && isDigit(p.data[p.offset]) {
			p.offset++
			if p.offset-fracStart > 3 {
				return nil, p.newParseError("decimal fractional component exceeds 3 digits")
			}
		}
		fracDigits := p.data[fracStart:p.offset]
		if fracDigits == "" {
			return nil, p.newParseError("decimal requires at least one fractional digit")
		}

		intVal, err := strconv.ParseInt(intDigits, 10, 64)
		if err != nil {
			return nil, p.newParseError("invalid decimal integer component: " + err.Error())
		}

		fracPadded := fracDigits
		for len(fracPadded) < 3 {
			fracPadded += "0"
		}
		fracVal, err := strconv.Atoi(fracPadded)
		if err != nil {
			return nil, p.newParseError("invalid decimal fractional component: " + err.Error())
		}

		return Decimal{
			intPart:  intVal,
			frac:     int16(fracVal),
			negative: negative && (intVal != 0 || fracVal != 0),
		}, nil
	}

	if len(intDigits) > 15 {
		return nil, p.newParseError("integer exceeds 15 digit limit")
	}

	valStr := p.data[start:p.offset]
	value, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		return nil, p.newParseError("invalid integer: " + err.Error())
	}
	return value, nil
}
