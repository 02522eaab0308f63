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
	"log"
	"testing"
)

const demoNDJSON = `{"make":"HOND","model":"Civic"}
{"make":"TOYT","model":"Corolla"}
{"make":"HOND","model":"Accord"}

{"make":"FORD","model":"F150"}
`

// countWhere walks every root-level object on the tape and counts those
// whose key's string value equals value. Grounded on the teacher's
// recursive countWhere helper, generalized to the portable tape format.
func countWhere(key, value string, data ParsedJson) (count int) {
	root := data.Iter()
	var tmp Iter
	var obj *Object
	var elem Element
	for {
		if root.Advance() != TypeRoot {
			return
		}
		typ, next, err := root.Root(&tmp)
		if err != nil {
			log.Fatal(err)
		}
		if typ != TypeObject {
			continue
		}
		obj, err = next.Object(obj)
		if err != nil {
			log.Fatal(err)
		}
		if e := obj.FindKey(key, &elem); e != nil && elem.Type == TypeString {
			v, _ := elem.Iter.StringBytes()
			if string(v) == value {
				count++
			}
		}
	}
}

func countObjects(data ParsedJson) (count int) {
	iter := data.Iter()
	for {
		typ := iter.Advance()
		switch typ {
		case TypeNone:
			return
		case TypeRoot:
			count++
		default:
			panic(typ)
		}
	}
}

func TestParseND(t *testing.T) {
	pj, err := ParseND([]byte(demoNDJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := countObjects(*pj); n != 4 {
		t.Errorf("countObjects: got %d want 4", n)
	}
	if n := countWhere("make", "HOND", *pj); n != 2 {
		t.Errorf("countWhere: got %d want 2", n)
	}
}

func TestParseNDBlankLinesSkipped(t *testing.T) {
	pj, err := ParseND([]byte("\n\n{\"a\":1}\n\n{\"a\":2}\n\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := countObjects(*pj); n != 2 {
		t.Errorf("countObjects: got %d want 2", n)
	}
}

func TestParseNDParallelMatchesSequential(t *testing.T) {
	seq, err := ParseND([]byte(demoNDJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	par, err := ParseNDParallel([]byte(demoNDJSON))
	if err != nil {
		t.Fatal(err)
	}
	if n := countObjects(*par); n != countObjects(*seq) {
		t.Errorf("ParseNDParallel: got %d objects, want %d", n, countObjects(*seq))
	}
	if n := countWhere("make", "HOND", *par); n != 2 {
		t.Errorf("ParseNDParallel countWhere: got %d want 2", n)
	}
}

func TestParseNDPropagatesLineError(t *testing.T) {
	_, err := ParseND([]byte("{\"a\":1}\n{\"a\":}\n"), nil)
	if err == nil {
		t.Fatal("expected an error from the malformed second line")
	}
}
