package zobj

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseBlob(t *testing.T) {
	obj, err := ParseObject(frameObject(TypeBlob, []byte("hello")))
	if err != nil {
		t.Fatalf("Failed to parse blob: %v", err)
	}
	if obj.Type != TypeBlob {
		t.Fatalf("Expected type %q, got %q", TypeBlob, obj.Type)
	}
	if obj.Size != 5 {
		t.Fatalf("Expected size 5, got %d", obj.Size)
	}
	if obj.Content != "hello" {
		t.Fatalf("Expected content %q, got %q", "hello", obj.Content)
	}
}

func TestParseEmptyBlob(t *testing.T) {
	obj, err := ParseObject(frameObject(TypeBlob, nil))
	if err != nil {
		t.Fatalf("Failed to parse empty blob: %v", err)
	}
	if obj.Size != 0 || obj.Content != "" {
		t.Fatalf("Expected empty blob, got size %d content %q", obj.Size, obj.Content)
	}
}

func treeEntryBytes(mode, name string, id byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(mode)
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.Write(bytes.Repeat([]byte{id}, 20))
	return buf.Bytes()
}

func TestParseTree(t *testing.T) {
	payload := append(
		treeEntryBytes("100644", "a.txt", 0x01),
		treeEntryBytes("40000", "sub", 0x02)...,
	)

	obj, err := ParseObject(frameObject(TypeTree, payload))
	if err != nil {
		t.Fatalf("Failed to parse tree: %v", err)
	}
	if obj.Type != TypeTree {
		t.Fatalf("Expected type %q, got %q", TypeTree, obj.Type)
	}
	if obj.Content != "a.txt\nsub" {
		t.Fatalf("Expected entry names %q, got %q", "a.txt\nsub", obj.Content)
	}
}

func TestParseObjectErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want error
	}{
		{"no header terminator", []byte("blob 5 hello"), ErrObjectFormat},
		{"missing size", []byte("blob\x00hello"), ErrObjectFormat},
		{"bad size", []byte("blob five\x00hello"), ErrObjectFormat},
		{"negative size", []byte("blob -1\x00hello"), ErrObjectFormat},
		{"unknown type", []byte("commit 5\x00hello"), ErrObjectType},
		{"unterminated tree entry", frameObject(TypeTree, []byte("100644 a.txt")), ErrObjectFormat},
		{"tree entry missing mode", frameObject(TypeTree, append([]byte("a.txt\x00"), bytes.Repeat([]byte{1}, 20)...)), ErrObjectFormat},
		{"truncated tree id", frameObject(TypeTree, []byte("100644 a.txt\x00abc")), ErrObjectFormat},
	}

	for _, tc := range cases {
		_, err := ParseObject(tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestHashObject(t *testing.T) {
	// well-known git blob id for "hello world\n"
	const want = "3b18e512dba79e4c8300dd08aeb37f8e728b8dad"
	if got := HashObject(TypeBlob, []byte("hello world\n")); got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}
}

func TestFrameObject(t *testing.T) {
	raw := frameObject(TypeBlob, []byte("hi"))
	if !bytes.Equal(raw, []byte("blob 2\x00hi")) {
		t.Fatalf("Unexpected raw form %q", raw)
	}
}
