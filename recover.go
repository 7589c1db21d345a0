package zobj

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// recoverFailed is returned once every strategy has been exhausted.
const recoverFailed = "Error: Could not decompress data using any known method. The data might be:" +
	"\n1. Not actually zlib compressed" +
	"\n2. Corrupted" +
	"\n3. Encoded using a different method" +
	"\n4. Missing headers or using non-standard compression parameters"

// gzip member magic, RFC 1952
var gzipMagic = []byte{0x1f, 0x8b}

var (
	errWideChar = errors.New("zobj: code point outside single-byte range")
	errNotUTF8  = errors.New("zobj: decompressed data is not valid UTF-8")
)

// A recoverStrategy is one guess about how the input encodes a zlib stream.
type recoverStrategy func(input string) (string, error)

var recoverStrategies = []recoverStrategy{
	recoverDirect,
	recoverAutoHeader,
	recoverBase64,
	recoverHex,
}

// Recover attempts to decompress a blob of text whose encoding is unknown.
// It tries, in order: the text's code points taken as raw bytes and
// inflated as a zlib stream, the same bytes with zlib/gzip header
// auto-detection, a base64 decode followed by zlib, and a hex decode
// followed by zlib. The first strategy that yields valid UTF-8 wins.
//
// Recover never fails: if no strategy applies it returns a diagnostic
// message describing the likely causes, and anything unexpected is
// reported as an "Error: " prefixed string.
func Recover(input string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("Error: %v", r)
		}
	}()

	for _, strategy := range recoverStrategies {
		if text, err := strategy(input); err == nil {
			return text
		}
	}
	return recoverFailed
}

// RecoverBytes runs Recover over raw bytes, mapping each byte to the code
// point of the same value first. Use this for input read from files or
// pipes, where invalid UTF-8 sequences would otherwise decode as U+FFFD
// and lose the original byte values.
func RecoverBytes(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return Recover(sb.String())
}

// recoverDirect treats the input as latin-1 text over a bare zlib stream.
func recoverDirect(input string) (string, error) {
	raw, err := singleByteChars(input)
	if err != nil {
		return "", err
	}
	return inflateText(raw, AlgorithmZlib)
}

// recoverAutoHeader is recoverDirect with header auto-detection, so gzip
// streams are accepted as well.
func recoverAutoHeader(input string) (string, error) {
	raw, err := singleByteChars(input)
	if err != nil {
		return "", err
	}
	if bytes.HasPrefix(raw, gzipMagic) {
		return inflateText(raw, AlgorithmGzip)
	}
	return inflateText(raw, AlgorithmZlib)
}

// recoverBase64 treats the input as base64-encoded zlib data.
func recoverBase64(input string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(input))
	if err != nil {
		return "", err
	}
	return inflateText(raw, AlgorithmZlib)
}

// recoverHex treats the input as hex-encoded zlib data.
func recoverHex(input string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(input))
	if err != nil {
		return "", err
	}
	return inflateText(raw, AlgorithmZlib)
}

// singleByteChars reinterprets s as one byte per code point, the inverse of
// reading raw bytes as latin-1 text. Code points above 0xFF cannot have come
// from a single byte, so they fail the conversion.
func singleByteChars(s string) ([]byte, error) {
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, errWideChar
		}
		raw = append(raw, byte(r))
	}
	return raw, nil
}

func inflateText(raw []byte, algo Algorithm) (string, error) {
	plain, err := DecompressBytes(raw, algo)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", errNotUTF8
	}
	return string(plain), nil
}
