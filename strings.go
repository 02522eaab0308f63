package simdjson

import "unicode/utf8"

// Stage 2 string codec. Grounded on the teacher's portable string-parsing
// reference path (the non-AVX2 fallback simdjson-go falls back to on
// unsupported hardware), generalized to enforce strict RFC 8259 escape and
// UTF-16 surrogate-pair semantics: an unterminated or invalid escape, a
// lone/misordered surrogate, or a raw control byte all fail the parse
// instead of being passed through, per the spec's invariant for this path.

const maxUTF8Width = 4

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func isLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

// parseString decodes the JSON string literal starting at buf[0] == '"'. It
// returns dst with the decoded bytes appended, the number of source bytes
// consumed (including both quotes), and a non-nil error on failure.
//
// fast is true when the literal contains no backslash escapes: callers that
// don't need a private copy (copyStrings == false) may then reference the
// source slice between the quotes directly instead of using out.
func parseString(buf []byte, dst []byte) (out []byte, consumed int, fast bool, err *stringError) {
	if len(buf) == 0 || buf[0] != '"' {
		return nil, 0, false, &stringError{kind: ErrUnexpectedChar, msg: "expected '\"'"}
	}
	i := 1
	n := len(buf)
	start := dst
	fast = true

	for {
		if i >= n {
			return nil, i, false, &stringError{kind: ErrUnterminatedString, msg: "unterminated string"}
		}
		c := buf[i]
		switch {
		case c == '"':
			return start, i + 1, fast, nil
		case c == '\\':
			if fast {
				// Leaving the no-escape path: copy the bytes already scanned.
				start = append(start, buf[1:i]...)
			}
			fast = false
			i++
			if i >= n {
				return nil, i, false, &stringError{kind: ErrUnterminatedString, msg: "unterminated escape"}
			}
			esc := buf[i]
			switch esc {
			case '"':
				start = append(start, '"')
				i++
			case '\\':
				start = append(start, '\\')
				i++
			case '/':
				start = append(start, '/')
				i++
			case 'b':
				start = append(start, '\b')
				i++
			case 'f':
				start = append(start, '\f')
				i++
			case 'n':
				start = append(start, '\n')
				i++
			case 'r':
				start = append(start, '\r')
				i++
			case 't':
				start = append(start, '\t')
				i++
			case 'u':
				var r rune
				var consumed2 int
				r, consumed2, err = decodeUnicodeEscape(buf[i+1:])
				if err != nil {
					return nil, i, false, err
				}
				i += 1 + consumed2
				if isHighSurrogate(r) {
					if i+1 >= n || buf[i] != '\\' || buf[i+1] != 'u' {
						return nil, i, false, &stringError{kind: ErrBadUTF16Surrogate, msg: "unpaired high surrogate"}
					}
					var low rune
					low, consumed2, err = decodeUnicodeEscape(buf[i+2:])
					if err != nil {
						return nil, i, false, err
					}
					if !isLowSurrogate(low) {
						return nil, i, false, &stringError{kind: ErrBadUTF16Surrogate, msg: "high surrogate not followed by low surrogate"}
					}
					i += 2 + consumed2
					r = ((r - 0xD800) << 10) + (low - 0xDC00) + 0x10000
				} else if isLowSurrogate(r) {
					return nil, i, false, &stringError{kind: ErrBadUTF16Surrogate, msg: "unpaired low surrogate"}
				}
				var tmp [maxUTF8Width]byte
				w := utf8.EncodeRune(tmp[:], r)
				start = append(start, tmp[:w]...)
			default:
				return nil, i, false, &stringError{kind: ErrBadEscape, msg: "invalid escape character"}
			}
		case c < 0x20:
			return nil, i, false, &stringError{kind: ErrBadEscape, msg: "raw control character in string"}
		default:
			if !fast {
				start = append(start, c)
			}
			i++
		}
	}
}

// decodeUnicodeEscape reads exactly 4 hex digits from buf and returns the
// corresponding code unit. consumed is always 4 on success.
func decodeUnicodeEscape(buf []byte) (rune, int, *stringError) {
	if len(buf) < 4 {
		return 0, 0, &stringError{kind: ErrUnterminatedString, msg: "truncated \\u escape"}
	}
	var v rune
	for i := 0; i < 4; i++ {
		c := buf[i]
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, 0, &stringError{kind: ErrBadEscape, msg: "invalid hex digit in \\u escape"}
		}
		v = v<<4 | d
	}
	return v, 4, nil
}

// stringError lets parseString report a kind without allocating a
// *ParseError (and thus without a source buffer) at the point of failure;
// the caller attaches position information once it knows the byte offset.
type stringError struct {
	kind ErrorKind
	msg  string
}
