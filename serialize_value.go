package simdjson

import (
	"sort"
	"strconv"
	"unicode/utf8"
)

// Serialize renders v as JSON text, appending to dst, honoring opts. This is
// the spec's serialize(value): a writer over the owned Value tree, distinct
// from Iter.MarshalJSONBuffer's tape-text re-emission and from
// Serializer.Serialize's binary tape codec (parsed_serialize.go) — three
// different things that happen to share a verb in casual conversation.
func Serialize(dst []byte, v *Value, opts SerializeOptions) []byte {
	e := valueEncoder{opts: opts}
	return e.encode(dst, v, 0)
}

// SerializePretty is Serialize with indentation defaulted to two spaces per
// level when opts.Indent is empty, matching spec §6's serialize_pretty.
func SerializePretty(dst []byte, v *Value, opts SerializeOptions) []byte {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return Serialize(dst, v, opts)
}

type valueEncoder struct {
	opts SerializeOptions
}

func (e *valueEncoder) encode(dst []byte, v *Value, depth int) []byte {
	if v == nil {
		return append(dst, "null"...)
	}
	switch v.Kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		if v.Bool {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindInt:
		return strconv.AppendInt(dst, v.Int, 10)
	case KindFloat:
		out, err := appendFloat(dst, v.Float)
		if err != nil {
			// appendFloat only rejects Inf/NaN, neither of which RFC 8259
			// has a JSON representation for; emit null rather than thread
			// an error return through every recursive call for this one
			// unrepresentable case.
			return append(dst, "null"...)
		}
		return out
	case KindString:
		return e.encodeString(dst, v.String)
	case KindArray:
		return e.encodeArray(dst, v, depth)
	case KindObject:
		return e.encodeObject(dst, v, depth)
	default:
		return append(dst, "null"...)
	}
}

func (e *valueEncoder) encodeArray(dst []byte, v *Value, depth int) []byte {
	dst = append(dst, '[')
	for idx, elem := range v.Array {
		if idx > 0 {
			dst = append(dst, ',')
		}
		dst = e.newline(dst, depth+1)
		dst = e.encode(dst, elem, depth+1)
	}
	if len(v.Array) > 0 {
		dst = e.newline(dst, depth)
	}
	return append(dst, ']')
}

func (e *valueEncoder) encodeObject(dst []byte, v *Value, depth int) []byte {
	dst = append(dst, '{')
	pairs := v.Object
	if e.opts.SortKeys && len(pairs) > 1 {
		sorted := make([]Pair, len(pairs))
		copy(sorted, pairs)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
		pairs = sorted
	}
	for idx, p := range pairs {
		if idx > 0 {
			dst = append(dst, ',')
		}
		dst = e.newline(dst, depth+1)
		dst = e.encodeString(dst, p.Key)
		dst = append(dst, ':')
		if e.opts.Indent != "" {
			dst = append(dst, ' ')
		}
		dst = e.encode(dst, p.Value, depth+1)
	}
	if len(pairs) > 0 {
		dst = e.newline(dst, depth)
	}
	return append(dst, '}')
}

func (e *valueEncoder) newline(dst []byte, depth int) []byte {
	if e.opts.Indent == "" {
		return dst
	}
	dst = append(dst, '\n')
	for i := 0; i < depth; i++ {
		dst = append(dst, e.opts.Indent...)
	}
	return dst
}

// encodeString writes s as a quoted JSON string. When neither
// EscapeForwardSlash nor EscapeUnicode is set, this degenerates to the same
// byte-escaping the tape-text writer already does (escapeBytes); the two
// options this function adds are rune-aware, so they only kick in on the
// slow path.
func (e *valueEncoder) encodeString(dst []byte, s string) []byte {
	if !e.opts.EscapeForwardSlash && !e.opts.EscapeUnicode {
		dst = append(dst, '"')
		dst = escapeBytes(dst, []byte(s))
		return append(dst, '"')
	}

	dst = append(dst, '"')
	for _, r := range s {
		switch r {
		case '\\':
			dst = append(dst, '\\', '\\')
		case '"':
			dst = append(dst, '\\', '"')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '/':
			if e.opts.EscapeForwardSlash {
				dst = append(dst, '\\', '/')
			} else {
				dst = append(dst, '/')
			}
		default:
			switch {
			case r < 0x20:
				dst = append(dst, '\\', 'u', '0', '0', valToHex[r>>4], valToHex[r&0xf])
			case r < 0x80:
				dst = append(dst, byte(r))
			case e.opts.EscapeUnicode:
				dst = appendUnicodeEscape(dst, r)
			default:
				dst = utf8.AppendRune(dst, r)
			}
		}
	}
	return append(dst, '"')
}

// appendUnicodeEscape writes r as one \uXXXX escape, or a surrogate pair of
// them for r outside the basic multilingual plane.
func appendUnicodeEscape(dst []byte, r rune) []byte {
	if r <= 0xFFFF {
		return appendU16Escape(dst, uint16(r))
	}
	r -= 0x10000
	hi := uint16(0xD800 + (r >> 10))
	lo := uint16(0xDC00 + (r & 0x3FF))
	dst = appendU16Escape(dst, hi)
	return appendU16Escape(dst, lo)
}

func appendU16Escape(dst []byte, v uint16) []byte {
	return append(dst, '\\', 'u', valToHex[v>>12&0xf], valToHex[v>>8&0xf], valToHex[v>>4&0xf], valToHex[v&0xf])
}
