// Package fixedpoint parses the fixed-point temperature token that follows
// the ';' separator on every measurement line, without allocation and
// without floating-point arithmetic.
package fixedpoint

// Parse reads a temperature token matching -?\d{1,2}\.\d(?:[^\n]*) starting
// at data[0] and returns the value in tenths (35.6 -> 356) along with the
// number of bytes consumed up to and including the sign and the digits
// actually read (not the trailing junk or the newline — callers skip to the
// next '\n' themselves, see internal/worker).
//
// Malformed input is undefined behavior: this function never validates
// digit ranges and will read garbage values for garbage input rather than
// return an error. The input is trusted and well-formed.
func Parse(data []byte) (value int16, consumed int) {
	sign := int16(1)
	i := 0
	if data[0] == '-' {
		sign = -1
		i = 1
	}

	b0, b1, b2, b3 := data[i], data[i+1], data[i+2], data[i+3]
	if b1 == '.' {
		value = int16(b0-'0')*10 + int16(b2-'0')
		consumed = i + 3
	} else {
		value = int16(b0-'0')*100 + int16(b1-'0')*10 + int16(b3-'0')
		consumed = i + 4
	}
	return sign * value, consumed
}
