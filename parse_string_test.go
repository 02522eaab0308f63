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
	"bytes"
	"testing"
)

// parseString operates on the content between (and including) the
// delimiting quotes, so every case here wraps str in its own quotes before
// calling it, matching how the tape builder hands it a slice starting at
// the opening '"'.
func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		success bool
		want    []byte
	}{
		{
			name:    "ascii-1",
			str:     `a`,
			success: true,
			want:    []byte(`a`),
		},
		{
			name:    "ascii-long",
			str:     `abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ`,
			success: true,
			want:    []byte(`abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ`),
		},
		{
			name:    "unicode-1",
			str:     `ሴ`,
			success: true,
			want:    []byte{225, 136, 180},
		},
		{
			name:    "unicode-short-by-1",
			str:     `\u123`,
			success: false,
		},
		{
			name:    "unicode-short-by-4",
			str:     `\u`,
			success: false,
		},
		{
			name:    "emoji-raw-utf8",
			str:     `😀`,
			success: true,
			want:    []byte{0xf0, 0x9f, 0x98, 0x80},
		},
		{
			name:    "escaped-surrogate-pair",
			str:     `\ud83d\ude00`,
			success: true,
			want:    []byte{0xf0, 0x9f, 0x98, 0x80},
		},
		{
			name:    "unpaired-high-surrogate",
			str:     `\ud83d`,
			success: false,
		},
		{
			name:    "high-surrogate-followed-by-non-surrogate",
			str:     `\ud83dሴ`,
			success: false,
		},
		{
			name:    "lone-low-surrogate",
			str:     `\udc00`,
			success: false,
		},
		{
			name:    "quote1",
			str:     `a\"b`,
			success: true,
			want:    []byte{97, 34, 98},
		},
		{
			name:    "quote2",
			str:     `a\"b\"c`,
			success: true,
			want:    []byte{97, 34, 98, 34, 99},
		},
		{
			name:    "unicode-2-seqs",
			str:     `ģ䕧`,
			success: true,
			want:    []byte{196, 163, 228, 149, 167},
		},
		{
			name:    "escaped-control-chars",
			str:     `\n\t\r\b\f`,
			success: true,
			want:    []byte{'\n', '\t', '\r', '\b', '\f'},
		},
		{
			name:    "raw-control-char-rejected",
			str:     "\x01",
			success: false,
		},
		{
			name:    "unknown-escape",
			str:     `\q`,
			success: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(`"` + tt.str + `"`)
			out, consumed, fast, err := parseString(src, nil)
			if tt.success {
				if err != nil {
					t.Fatalf("unexpected error: %v", err.msg)
				}
				// On the fast (no-escape) path the decoded bytes are never
				// appended to dst: the caller is expected to read the
				// source slice between the quotes directly instead.
				got := out
				if fast {
					got = src[1 : consumed-1]
				}
				if !bytes.Equal(got, tt.want) {
					t.Errorf("got %v, want %v", got, tt.want)
				}
				return
			}
			if err == nil {
				t.Errorf("expected error, got none (result %v)", out)
			}
		})
	}
}
