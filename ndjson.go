package simdjson

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// Stage 1 and 2 run once per line of newline-delimited JSON: each line is
// an independent document, so the framer just needs to find the LF bytes
// and hand each span to buildTape on its own. A trailing '\r' (CRLF input)
// is left as part of the line's content, per the parser's NDJSON framing
// rule — it is whitespace and stage 1 will skip over it like any other.

type lineSpan struct {
	start, end int // [start, end) within buf, end excludes the delimiting '\n'
}

func splitLines(buf []byte) []lineSpan {
	var spans []lineSpan
	start := 0
	for i, c := range buf {
		if c == '\n' {
			if i > start {
				spans = append(spans, lineSpan{start, i})
			}
			start = i + 1
		}
	}
	if start < len(buf) {
		spans = append(spans, lineSpan{start, len(buf)})
	}
	return spans
}

// parseMessageNdjson parses buf as newline-delimited JSON, appending one
// Root-wrapped tape per non-blank line to pj.Tape, in line order.
func (pj *internalParsedJson) parseMessageNdjson(buf []byte) error {
	pj.Message = buf
	spans := splitLines(buf)
	if len(spans) == 0 {
		return newParseError(buf, 0, ErrUnexpectedEOF, "empty input")
	}
	for _, span := range spans {
		line := buf[span.start:span.end]
		indices, ok, offset := findStructuralIndices(line)
		if !ok {
			return newParseError(buf, span.start+offset, ErrUnterminatedString, "unterminated string")
		}
		if len(indices) == 0 {
			continue
		}
		shifted := make([]uint32, len(indices))
		for i, v := range indices {
			shifted[i] = v + uint32(span.start)
		}
		if err := buildTape(pj, buf, shifted); err != nil {
			return err
		}
	}
	pj.isvalid = true
	return nil
}

// lineResult is one worker's output: a fully built tape/string buffer
// covering exactly its own line, plus the line's position for ordering.
type lineResult struct {
	index int
	pj    internalParsedJson
	err   error
}

// parseNDJSONParallel fans a large NDJSON payload out across a worker pool,
// one goroutine-parsed ParsedJson per line, and reassembles them in input
// order. Completed line indices are tracked in a roaring.Bitmap rather than
// a plain slice of bools, and its cardinality is checked against the line
// count before the per-line tapes are merged.
func parseNDJSONParallel(buf []byte, cfg parserConfig, workers int) (*ParsedJson, error) {
	spans := splitLines(buf)
	if len(spans) == 0 {
		return nil, newParseError(buf, 0, ErrUnexpectedEOF, "empty input")
	}
	if workers <= 0 {
		workers = 1
	}
	// Merging discards each line's own Message buffer, so every string must
	// live in Strings for the rebased offsets below to resolve.
	cfg.copyStrings = true

	jobs := make(chan int, len(spans))
	results := make(chan lineResult, len(spans))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				span := spans[i]
				line := buf[span.start:span.end]
				var ipj internalParsedJson
				ipj.cfg = cfg
				err := ipj.parseMessage(line)
				results <- lineResult{index: i, pj: ipj, err: err}
			}
		}()
	}
	for i := range spans {
		jobs <- i
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]lineResult, len(spans))
	completed := roaring.NewBitmap()
	for res := range results {
		ordered[res.index] = res
		completed.Add(uint32(res.index))
	}
	if int(completed.GetCardinality()) != len(spans) {
		return nil, fmt.Errorf("ndjson: only %d of %d lines completed", completed.GetCardinality(), len(spans))
	}

	out := &ParsedJson{}
	for _, res := range ordered {
		if res.err != nil {
			return nil, fmt.Errorf("ndjson: line %d: %w", res.index+1, res.err)
		}
		base := uint64(len(out.Strings))
		tapeStart := len(out.Tape)
		out.Tape = append(out.Tape, res.pj.Tape...)
		// Container payloads are tape indices local to the line's own
		// tape; shift them to where that tape now starts.
		for j := tapeStart; j < len(out.Tape); j++ {
			switch Tag(out.Tape[j] >> 56) {
			case TagRoot, TagObjectStart, TagObjectEnd, TagArrayStart, TagArrayEnd:
				out.Tape[j] += uint64(tapeStart)
			case TagString, TagInteger, TagUint, TagFloat:
				j++ // skip the value slot
			}
		}
		// Re-home string-buffer references: every TagString entry's
		// payload indexes into that line's own Strings buffer, which is
		// about to be appended after out.Strings.
		rebaseStringOffsets(out.Tape[tapeStart:], base)
		out.Strings = append(out.Strings, res.pj.Strings...)
	}
	return out, nil
}

// rebaseStringOffsets adds base to the payload of every TagString tape
// entry in tape that references the shared string buffer (STRINGBUFBIT
// set); entries that reference a line's own Message buffer directly are
// left alone, since lines are not concatenated into one Message.
func rebaseStringOffsets(tape []uint64, base uint64) {
	for i := 0; i < len(tape); i++ {
		tag := Tag(tape[i] >> 56)
		if tag != TagString {
			continue
		}
		payload := tape[i] & JSONVALUEMASK
		if payload&STRINGBUFBIT != 0 {
			tape[i] = (uint64(TagString) << JSONTAGOFFSET) | (((payload &^ STRINGBUFBIT) + base) | STRINGBUFBIT)
		}
		// Skip the length slot that follows.
		i++
	}
}
