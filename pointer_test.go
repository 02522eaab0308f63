package simdjson

import (
	"reflect"
	"testing"
)

func TestSplitPointer(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/foo", []string{"foo"}},
		{"/foo/0", []string{"foo", "0"}},
		{"/a~1b", []string{"a/b"}},
		{"/m~0n", []string{"m~n"}},
		{"/a~01", []string{"a~1"}},
	}
	for _, tt := range cases {
		got, err := SplitPointer(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%q: want %#v, got %#v", tt.in, tt.want, got)
		}
	}
}

func TestSplitPointerInvalid(t *testing.T) {
	if _, err := SplitPointer("foo"); err == nil {
		t.Fatal("expected error for pointer missing leading '/'")
	}
}

const pointerTestJSON = `{"a":{"b":[10,20,30]},"c":"hi"}`

func TestValueFindPointer(t *testing.T) {
	v, err := ParseValue([]byte(pointerTestJSON))
	if err != nil {
		t.Fatal(err)
	}

	got, err := v.FindPointer("/a/b/1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Kind != KindInt || got.Int != 20 {
		t.Fatalf("want int 20, got %#v", got)
	}

	got, err = v.FindPointer("/c")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Kind != KindString || got.String != "hi" {
		t.Fatalf("want string hi, got %#v", got)
	}

	got, err = v.FindPointer("")
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Fatal("empty pointer should resolve to the root value")
	}

	got, err = v.FindPointer("/a/missing")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("want nil for missing key, got %#v", got)
	}
}

// TestValueFindPointerLeadingZero pins down RFC 6901's requirement that an
// array-index token have no leading zeros except the literal "0": a
// previous version parsed tokens with strconv.Atoi alone, which silently
// accepted "01" as index 1.
func TestValueFindPointerLeadingZero(t *testing.T) {
	v, err := ParseValue([]byte(pointerTestJSON))
	if err != nil {
		t.Fatal(err)
	}

	for _, tok := range []string{"/a/b/01", "/a/b/007", "/a/b/-0"} {
		got, err := v.FindPointer(tok)
		if err != nil {
			t.Fatalf("%s: %v", tok, err)
		}
		if got != nil {
			t.Fatalf("%s: want nil (invalid index), got %#v", tok, got)
		}
	}

	// "0" itself is still valid.
	got, err := v.FindPointer("/a/b/0")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Int != 10 {
		t.Fatalf("want int 10, got %#v", got)
	}
}

func TestObjectFindPointer(t *testing.T) {
	pj, err := Parse([]byte(pointerTestJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	i := pj.Iter()
	i.AdvanceInto()
	_, root, err := i.Root(nil)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := root.Object(nil)
	if err != nil {
		t.Fatal(err)
	}

	elem, err := obj.FindPointer(nil, "/a/b/2")
	if err != nil {
		t.Fatal(err)
	}
	n, err := elem.Iter.Int()
	if err != nil {
		t.Fatal(err)
	}
	if n != 30 {
		t.Fatalf("want 30, got %d", n)
	}
}

// TestObjectFindPointerLeadingZero mirrors TestValueFindPointerLeadingZero
// for the lazy-layer lookup path (pointer.go's findPointerTokens).
func TestObjectFindPointerLeadingZero(t *testing.T) {
	pj, err := Parse([]byte(pointerTestJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	i := pj.Iter()
	i.AdvanceInto()
	_, root, err := i.Root(nil)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := root.Object(nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := obj.FindPointer(nil, "/a/b/01"); err != ErrPathNotFound {
		t.Fatalf("want ErrPathNotFound, got %v", err)
	}
}
