package simdjson

// defaultMaxDepth matches the spec's default container nesting bound.
const defaultMaxDepth = 1000

// parserConfig holds the resolved effect of every ParserOption.
type parserConfig struct {
	copyStrings         bool
	maxDepth            int
	allowTrailingComma  bool
	allowComments       bool
	detectDuplicateKeys bool
}

func defaultParserConfig() parserConfig {
	return parserConfig{
		copyStrings: alwaysCopyStrings,
		maxDepth:    defaultMaxDepth,
	}
}

// ParserOption is a parser option.
type ParserOption func(pj *internalParsedJson) error

// WithCopyStrings will copy strings so they no longer reference the input.
// For enhanced performance, simdjson-go can point back into the original JSON buffer for strings,
// however this can lead to issues in streaming use cases scenarios, or scenarios in which
// the underlying JSON buffer is reused. So the default behaviour is to create copies of all
// strings (not just those transformed anyway for unicode escape characters) into the separate
// Strings buffer (at the expense of using more memory and less performance).
// Default: true - strings are copied.
func WithCopyStrings(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.cfg.copyStrings = b
		return nil
	}
}

// WithMaxDepth bounds the container nesting depth the tape builder will
// accept. Exceeding it raises ErrDepthExceeded. Default: 1000.
func WithMaxDepth(depth int) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.cfg.maxDepth = depth
		return nil
	}
}

// WithAllowTrailingComma accepts a comma immediately before a closing ] or }.
// Default: false.
func WithAllowTrailingComma(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.cfg.allowTrailingComma = b
		return nil
	}
}

// WithAllowComments skips // line and /* block */ comments wherever
// whitespace is permitted. Default: false.
func WithAllowComments(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.cfg.allowComments = b
		return nil
	}
}

// WithDetectDuplicateKeys raises ErrDuplicateKey when an object repeats a
// key, instead of silently letting the last occurrence win. Default: false.
func WithDetectDuplicateKeys(b bool) ParserOption {
	return func(pj *internalParsedJson) error {
		pj.cfg.detectDuplicateKeys = b
		return nil
	}
}

// SerializeOptions configures Serialize/SerializePretty (serialize_value.go),
// the JSON-text writer over the owned Value tree.
type SerializeOptions struct {
	// Indent, when non-empty, pretty-prints with this string per level.
	Indent string
	// SortKeys emits object keys in stable lexicographic byte order.
	SortKeys bool
	// EscapeUnicode emits non-ASCII as \uXXXX pairs.
	EscapeUnicode bool
	// EscapeForwardSlash emits '/' as \/.
	EscapeForwardSlash bool
}
