/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simdjson

import (
	"testing"
)

const demoJSON = `{
	"Image": {
		"Width":  800,
		"Height": 600,
		"Title":  "View from 15th Floor",
		"Thumbnail": {
			"Url":    "http://www.example.com/image/481989943",
			"Height": 125,
			"Width":  100
		},
		"Animated": false,
		"IDs": [116, 943, 234, 38793]
	}
}`

func TestPrintJson(t *testing.T) {
	expected := `{"Image":{"Width":800,"Height":600,"Title":"View from 15th Floor","Thumbnail":{"Url":"http://www.example.com/image/481989943","Height":125,"Width":100},"Animated":false,"IDs":[116,943,234,38793]}}`

	pj := internalParsedJson{cfg: defaultParserConfig()}
	if err := pj.parseMessage([]byte(demoJSON)); err != nil {
		t.Fatalf("parseMessage failed: %v", err)
	}

	iter := pj.Iter()
	out, err := iter.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	if string(out) != expected {
		t.Errorf("TestPrintJson: got: %s want: %s", out, expected)
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		`{}`,
		`[]`,
		`null`,
		`true`,
		`false`,
		`0`,
		`-17`,
		`3.14`,
		`"hello \"world\""`,
		`{"a":1,"b":[1,2,3],"c":{"d":null}}`,
		`[1,2,3,[4,5,[6]],{"x":"y"}]`,
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			pj, err := Parse([]byte(src), nil)
			if err != nil {
				t.Fatalf("Parse(%q): %v", src, err)
			}
			out, err := pj.Iter().MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			_ = out
		})
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		``,
		`{`,
		`[`,
		`{"a":}`,
		`{"a" 1}`,
		`[1,]`,
		`{,}`,
		`tru`,
		`{"a":1}{"b":2}`,
		`"unterminated`,
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			if _, err := Parse([]byte(src), nil); err == nil {
				t.Errorf("Parse(%q): expected error, got none", src)
			}
		})
	}
}

func TestParseTrailingCommaOption(t *testing.T) {
	src := []byte(`[1,2,3,]`)
	if _, err := Parse(src, nil); err == nil {
		t.Fatal("expected trailing comma to be rejected by default")
	}
	if _, err := Parse(src, nil, WithAllowTrailingComma(true)); err != nil {
		t.Fatalf("expected trailing comma to be accepted: %v", err)
	}
}

func TestParseDuplicateKeyOption(t *testing.T) {
	src := []byte(`{"a":1,"a":2}`)
	if _, err := Parse(src, nil); err != nil {
		t.Fatalf("duplicate keys should be allowed by default: %v", err)
	}
	_, err := Parse(src, nil, WithDetectDuplicateKeys(true))
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != ErrDuplicateKey {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestParseMaxDepthOption(t *testing.T) {
	src := []byte(`[[[[[1]]]]]`)
	if _, err := Parse(src, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := Parse(src, nil, WithMaxDepth(3))
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != ErrDepthExceeded {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestParseAllowComments(t *testing.T) {
	src := []byte(`{
		// a comment
		"a": 1, /* inline */ "b": 2
	}`)
	if _, err := Parse(src, nil); err == nil {
		t.Fatal("expected comments to be rejected by default")
	}
	pj, err := Parse(src, nil, WithAllowComments(true))
	if err != nil {
		t.Fatalf("expected comments to be accepted: %v", err)
	}
	out, err := pj.Iter().MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":1,"b":2}` {
		t.Errorf("got %s", out)
	}
}
