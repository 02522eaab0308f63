package simdjson

import (
	"bufio"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// initialize resets an internalParsedJson for a new document of roughly
// size bytes, reusing its backing arrays where possible.
func (pj *internalParsedJson) initialize(size int) {
	if cap(pj.Tape) == 0 {
		pj.Tape = make([]uint64, 0, size/2+32)
	} else {
		pj.Tape = pj.Tape[:0]
	}
	if cap(pj.Strings) == 0 {
		pj.Strings = make([]byte, 0, size/2+32)
	} else {
		pj.Strings = pj.Strings[:0]
	}
	pj.Message = nil
	pj.isvalid = false
}

// parseMessage runs both stages over a single JSON document.
func (pj *internalParsedJson) parseMessage(buf []byte) error {
	effective := buf
	if pj.cfg.allowComments {
		stripped, perr := stripComments(buf)
		if perr != nil {
			return perr
		}
		effective = stripped
	}
	pj.Message = effective

	indices, ok, offset := findStructuralIndices(effective)
	if !ok {
		return newParseError(effective, offset, ErrUnterminatedString, "unterminated string")
	}
	if len(indices) == 0 {
		return newParseError(effective, 0, ErrUnexpectedEOF, "empty input")
	}
	if err := buildTape(pj, effective, indices); err != nil {
		return err
	}
	pj.isvalid = true
	return nil
}

// Parse parses a single JSON document and returns its tape.
// An optional previously parsed result can be supplied via reuse to avoid
// reallocating the tape and string buffers.
func Parse(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	var pj *internalParsedJson
	if reuse != nil && reuse.internal != nil {
		pj = reuse.internal
		pj.ParsedJson = *reuse
		pj.ParsedJson.internal = nil
	}
	if pj == nil {
		pj = &internalParsedJson{}
	}
	pj.cfg = defaultParserConfig()
	for _, opt := range opts {
		if err := opt(pj); err != nil {
			return nil, err
		}
	}
	pj.initialize(len(b))
	if err := pj.parseMessage(b); err != nil {
		return nil, err
	}
	parsed := pj.ParsedJson
	parsed.internal = pj
	return &parsed, nil
}

// ParseND parses newline-delimited JSON, one independent document per line,
// and concatenates their tapes in input order.
func ParseND(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	var pj internalParsedJson
	pj.cfg = defaultParserConfig()
	for _, opt := range opts {
		if err := opt(&pj); err != nil {
			return nil, err
		}
	}
	if reuse != nil {
		pj.ParsedJson = *reuse
	}
	pj.initialize(len(b))
	if err := pj.parseMessageNdjson(b); err != nil {
		return nil, err
	}
	return &pj.ParsedJson, nil
}

// ParseNDParallel parses newline-delimited JSON with one worker per
// available CPU, each worker owning whole lines. It trades the single
// shared Message buffer ParseND produces for throughput on large inputs:
// every string tape entry is copied into the merged Strings buffer, so the
// result never references b after this call returns.
func ParseNDParallel(b []byte, opts ...ParserOption) (*ParsedJson, error) {
	var pj internalParsedJson
	pj.cfg = defaultParserConfig()
	for _, opt := range opts {
		if err := opt(&pj); err != nil {
			return nil, err
		}
	}
	return parseNDJSONParallel(b, pj.cfg, runtime.GOMAXPROCS(0))
}

// Stream is one result delivered by ParseNDStream.
type Stream struct {
	Value *ParsedJson
	Error error
}

// ParseNDStream parses a stream of newline-delimited JSON and delivers
// parsed chunks to res as they become available. Each chunk contains an
// unspecified number of complete, Root-wrapped elements. The channel is
// closed once a non-nil Error has been sent; a clean end of stream reports
// io.EOF.
func ParseNDStream(r io.Reader, res chan<- Stream, opts ...ParserOption) {
	const chunkSize = 10 << 20
	br := bufio.NewReaderSize(r, chunkSize)
	buf := make([]byte, 0, chunkSize+4096)
	go func() {
		defer close(res)
		for {
			buf = buf[:0]
			limited := io.LimitReader(br, chunkSize)
			n, err := io.Copy(sliceWriter{&buf}, limited)
			if err != nil {
				res <- Stream{Error: fmt.Errorf("reading input: %w", err)}
				return
			}
			if n > 0 {
				// Finish the last partial line in this chunk so every
				// chunk boundary falls on a line break.
				rest, rerr := br.ReadBytes('\n')
				if rerr != nil && rerr != io.EOF {
					res <- Stream{Error: fmt.Errorf("reading input: %w", rerr)}
					return
				}
				buf = append(buf, rest...)
			}
			if len(buf) > 0 {
				var pj internalParsedJson
				pj.cfg = defaultParserConfig()
				for _, opt := range opts {
					if err := opt(&pj); err != nil {
						res <- Stream{Error: err}
						return
					}
				}
				pj.initialize(len(buf))
				if err := pj.parseMessageNdjson(buf); err != nil {
					res <- Stream{Error: fmt.Errorf("parsing input: %w", err)}
					return
				}
				parsed := pj.ParsedJson
				res <- Stream{Value: &parsed}
			}
			if n == 0 {
				res <- Stream{Error: io.EOF}
				return
			}
		}
	}()
}

// sliceWriter adapts a *[]byte to io.Writer for io.Copy.
type sliceWriter struct{ dst *[]byte }

func (w sliceWriter) Write(p []byte) (int, error) {
	*w.dst = append(*w.dst, p...)
	return len(p), nil
}

// SupportedCPU reports whether cpuid detects an x86-64 CPU at
// microarchitecture level 1 or above; on other architectures it reports
// false. The structural indexer here is a portable scalar implementation
// that runs regardless of the result; the check is kept so that code
// written against simdjson-go's capability check compiles unchanged and
// can use it to decide whether to route work to this parser at all.
func SupportedCPU() bool {
	return cpuid.CPU.X64Level() >= 1
}
