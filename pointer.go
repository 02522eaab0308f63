package simdjson

import (
	"errors"
	"strconv"
	"strings"
)

// parseArrayIndex parses tok as an RFC 6901 array index: per the grammar
// (array-index = %x30 / (%x31-39 *(%x30-39))) this is all-digit, no sign,
// and no leading zero except the single-character token "0" itself. "01",
// "007" and "-0" are all rejected rather than silently resolving to an
// index via a bare strconv.Atoi, which accepts all three.
func parseArrayIndex(tok string) (int, bool) {
	if tok == "" {
		return 0, false
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	if tok[0] == '0' && len(tok) > 1 {
		return 0, false
	}
	idx, err := strconv.Atoi(tok)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// SplitPointer tokenizes an RFC 6901 JSON Pointer into its reference
// tokens, unescaping "~1" to "/" and "~0" to "~" in that order. The root
// pointer "" yields a nil, zero-length token slice. Tokenizing follows the
// segment-splitting style of the example pack's xjson query engine,
// trimmed down to pointer-only semantics: no wildcard or filter segments.
func SplitPointer(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if pointer[0] != '/' {
		return nil, errors.New("json pointer must start with '/' or be empty")
	}
	raw := strings.Split(pointer[1:], "/")
	tokens := make([]string, len(raw))
	for i, tok := range raw {
		if strings.IndexByte(tok, '~') < 0 {
			tokens[i] = tok
			continue
		}
		tokens[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
	}
	return tokens, nil
}

// FindPointer resolves an RFC 6901 JSON Pointer against v, returning the
// value at that location or nil if any segment is absent or addresses the
// wrong kind of container. An array segment must be the decimal form of a
// valid index ("0", "12", ...); "-" (the RFC's append-only signal) never
// resolves since it never names an existing element.
func (v *Value) FindPointer(pointer string) (*Value, error) {
	tokens, err := SplitPointer(pointer)
	if err != nil {
		return nil, err
	}
	cur := v
	for _, tok := range tokens {
		if cur == nil {
			return nil, nil
		}
		switch cur.Kind {
		case KindObject:
			cur = cur.Get(tok)
		case KindArray:
			idx, ok := parseArrayIndex(tok)
			if !ok {
				return nil, nil
			}
			cur = cur.Index(idx)
		default:
			return nil, nil
		}
	}
	return cur, nil
}

// FindPointer resolves an RFC 6901 JSON Pointer against the lazy object o,
// descending through nested objects and arrays without materializing any
// sibling it doesn't walk through. dst, if non-nil, is reused for the
// final Element the same way FindPath reuses its destination.
func (o *Object) FindPointer(dst *Element, pointer string) (*Element, error) {
	tokens, err := SplitPointer(pointer)
	if err != nil {
		return dst, err
	}
	if len(tokens) == 0 {
		return dst, ErrPathNotFound
	}
	return findPointerTokens(o, nil, tokens, dst)
}

// findPointerTokens walks tokens against whichever of obj/arr is non-nil,
// recursing into the next container as each token resolves.
func findPointerTokens(obj *Object, arr *Array, tokens []string, dst *Element) (*Element, error) {
	tok := tokens[0]
	rest := tokens[1:]

	var elem *Element
	switch {
	case obj != nil:
		elem = obj.FindKey(tok, dst)
		if elem == nil {
			return dst, ErrPathNotFound
		}
	case arr != nil:
		idx, ok := parseArrayIndex(tok)
		if !ok {
			return dst, ErrPathNotFound
		}
		found, err := arrayElementAt(arr, idx, dst)
		if err != nil {
			return dst, err
		}
		if found == nil {
			return dst, ErrPathNotFound
		}
		elem = found
	default:
		return dst, ErrPathNotFound
	}

	if len(rest) == 0 {
		return elem, nil
	}

	switch elem.Type {
	case TypeObject:
		next, err := elem.Iter.Object(nil)
		if err != nil {
			return dst, err
		}
		return findPointerTokens(next, nil, rest, dst)
	case TypeArray:
		next, err := elem.Iter.Array(nil)
		if err != nil {
			return dst, err
		}
		return findPointerTokens(nil, next, rest, dst)
	default:
		return dst, ErrPathNotFound
	}
}

// arrayElementAt returns the idx'th element of arr as an Element, or nil
// if idx is out of range.
func arrayElementAt(arr *Array, idx int, dst *Element) (*Element, error) {
	i := arr.Iter()
	var elem Iter
	for n := 0; ; n++ {
		t, err := i.AdvanceIter(&elem)
		if err != nil {
			return nil, err
		}
		if t == TypeNone {
			return nil, nil
		}
		if n == idx {
			if dst == nil {
				dst = &Element{}
			}
			dst.Type = t
			dst.Iter = elem
			return dst, nil
		}
	}
}
