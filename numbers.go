package simdjson

import "strconv"

// Stage 2 number codec. The spec's Open Questions settle on the same
// behavior as the teacher's GOLANG_NUMBER_PARSING reference path
// (parse_number_amd64.go): try a fast integer parse first, and fall back to
// a double whenever the literal has 19 or more significant digits or uses a
// fraction/exponent.

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// numberEnd finds the extent of a number literal starting at buf[0],
// scanning until the first byte that cannot possibly be part of one. It is
// deliberately permissive: the token it returns is handed to parseNumber,
// which performs the strict RFC 8259 validation.
func numberEnd(buf []byte) int {
	i := 0
	n := len(buf)
	for i < n {
		c := buf[i]
		if isDigit(c) || c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E' {
			i++
			continue
		}
		break
	}
	return i
}

// parseNumber validates buf as a complete RFC 8259 number and returns its
// tag (TagInteger or TagFloat) and value. It returns TagEnd if buf is not,
// in its entirety, a well-formed JSON number.
func parseNumber(buf []byte) (tag Tag, ivalue int64, fvalue float64) {
	n := len(buf)
	if n == 0 {
		return TagEnd, 0, 0
	}
	i := 0
	neg := false
	if buf[i] == '-' {
		neg = true
		i++
		if i >= n {
			return TagEnd, 0, 0
		}
	}

	intStart := i
	if buf[i] == '0' {
		i++
	} else if isDigit(buf[i]) {
		for i < n && isDigit(buf[i]) {
			i++
		}
	} else {
		return TagEnd, 0, 0
	}
	intDigits := i - intStart

	isFloat := false
	if i < n && buf[i] == '.' {
		isFloat = true
		i++
		fracStart := i
		for i < n && isDigit(buf[i]) {
			i++
		}
		if i == fracStart {
			return TagEnd, 0, 0
		}
	}

	if i < n && (buf[i] == 'e' || buf[i] == 'E') {
		isFloat = true
		i++
		if i < n && (buf[i] == '+' || buf[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(buf[i]) {
			i++
		}
		if i == expStart {
			return TagEnd, 0, 0
		}
	}

	if i != n {
		// Trailing garbage: not a single well-formed number.
		return TagEnd, 0, 0
	}

	if !isFloat && intDigits < 19 {
		var v int64
		for _, c := range buf[intStart : intStart+intDigits] {
			v = v*10 + int64(c-'0')
		}
		if neg {
			v = -v
		}
		return TagInteger, v, 0
	}

	f, err := strconv.ParseFloat(string(buf), 64)
	if err != nil {
		return TagEnd, 0, 0
	}
	return TagFloat, 0, f
}
