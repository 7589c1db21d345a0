package zobj

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Object types
const (
	TypeBlob = "blob"
	TypeTree = "tree"
)

// Object is a parsed repository object. Content holds the blob text, or for
// trees the newline-joined entry names. Size is the length declared in the
// object header.
type Object struct {
	Type    string
	Size    int
	Content string
}

// ParseObject parses the raw, decompressed form of an object:
// "<type> <size>\x00<content>".
func ParseObject(raw []byte) (*Object, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return nil, errors.Wrap(ErrObjectFormat, "missing header terminator")
	}
	header := raw[:nul]
	if !utf8.Valid(header) {
		return nil, errors.Wrap(ErrObjectFormat, "header is not valid UTF-8")
	}
	parts := strings.Fields(string(header))
	if len(parts) != 2 {
		return nil, errors.Wrap(ErrObjectFormat, "malformed header")
	}
	size, err := strconv.Atoi(parts[1])
	if err != nil || size < 0 {
		return nil, errors.Wrapf(ErrObjectFormat, "invalid size %q", parts[1])
	}

	content := raw[nul+1:]
	switch parts[0] {
	case TypeBlob:
		if !utf8.Valid(content) {
			return nil, errors.Wrap(ErrObjectFormat, "blob content is not valid UTF-8")
		}
		return &Object{Type: TypeBlob, Size: size, Content: string(content)}, nil
	case TypeTree:
		rendered, err := parseTree(content)
		if err != nil {
			return nil, err
		}
		return &Object{Type: TypeTree, Size: size, Content: rendered}, nil
	default:
		return nil, errors.Wrapf(ErrObjectType, "%q", parts[0])
	}
}

// parseTree walks "<mode> <name>\x00" + 20-byte SHA-1 entries and returns
// the entry names joined by newlines.
func parseTree(data []byte) (string, error) {
	var names []string
	pos := 0
	for pos < len(data) {
		nul := bytes.IndexByte(data[pos:], 0)
		if nul < 0 {
			return "", errors.Wrap(ErrObjectFormat, "unterminated tree entry")
		}
		modeAndName := string(data[pos : pos+nul])
		_, name, ok := strings.Cut(modeAndName, " ")
		if !ok {
			return "", errors.Wrap(ErrObjectFormat, "tree entry missing mode")
		}
		pos += nul + 1

		if pos+sha1.Size > len(data) {
			return "", errors.Wrap(ErrObjectFormat, "incomplete tree entry id")
		}
		pos += sha1.Size
		names = append(names, name)
	}
	return strings.Join(names, "\n"), nil
}

// HashObject returns the hex SHA-1 id of an object with the given type and
// content. The hash covers the full raw form including the header.
func HashObject(objType string, content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d", objType, len(content))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// frameObject prepends the object header to content, producing the raw form
// that gets hashed and stored.
func frameObject(objType string, content []byte) []byte {
	raw := make([]byte, 0, len(objType)+len(content)+16)
	raw = append(raw, objType...)
	raw = append(raw, ' ')
	raw = strconv.AppendInt(raw, int64(len(content)), 10)
	raw = append(raw, 0)
	return append(raw, content...)
}
