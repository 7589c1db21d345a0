package zobj

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// failedMessage is what Recover reports when nothing works. Spelled out here
// so the test catches accidental edits to the user-facing text.
const failedMessage = "Error: Could not decompress data using any known method. The data might be:\n" +
	"1. Not actually zlib compressed\n" +
	"2. Corrupted\n" +
	"3. Encoded using a different method\n" +
	"4. Missing headers or using non-standard compression parameters"

func mustCompress(t *testing.T, algo Algorithm, text string) []byte {
	t.Helper()
	data, err := CompressBytes([]byte(text), algo, 0)
	if err != nil {
		t.Fatalf("Failed to compress with %s: %v", algo, err)
	}
	return data
}

// singleByteString maps each byte to the code point of the same value, the
// way a latin-1 read of a binary file produces text.
func singleByteString(raw []byte) string {
	var sb strings.Builder
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

func TestRecoverDirectZlib(t *testing.T) {
	const plaintext = "the quick brown fox jumps over the lazy dog"
	input := singleByteString(mustCompress(t, AlgorithmZlib, plaintext))

	got := Recover(input)
	if got != plaintext {
		t.Fatalf("Expected %q, got %q", plaintext, got)
	}
}

func TestRecoverGzipAutoDetect(t *testing.T) {
	const plaintext = "gzip member, found by header auto-detection"
	input := singleByteString(mustCompress(t, AlgorithmGzip, plaintext))

	got := Recover(input)
	if got != plaintext {
		t.Fatalf("Expected %q, got %q", plaintext, got)
	}
}

func TestRecoverBase64(t *testing.T) {
	input := base64.StdEncoding.EncodeToString(mustCompress(t, AlgorithmZlib, "hello world"))

	got := Recover(input)
	if got != "hello world" {
		t.Fatalf("Expected %q, got %q", "hello world", got)
	}

	// trailing whitespace from a copy-paste should not matter
	got = Recover(input + "\n")
	if got != "hello world" {
		t.Fatalf("Expected %q with trailing newline, got %q", "hello world", got)
	}
}

func TestRecoverHex(t *testing.T) {
	const plaintext = "hex-wrapped zlib payload"
	input := hex.EncodeToString(mustCompress(t, AlgorithmZlib, plaintext))

	got := Recover(input)
	if got != plaintext {
		t.Fatalf("Expected %q, got %q", plaintext, got)
	}

	// uppercase hex decodes the same way
	got = Recover(strings.ToUpper(input))
	if got != plaintext {
		t.Fatalf("Expected %q from uppercase hex, got %q", plaintext, got)
	}
}

func TestRecoverGarbage(t *testing.T) {
	for _, input := range []string{
		"not compressed data at all",
		"",
		"48656c6c6f",       // valid hex, but not a zlib stream
		"aGVsbG8gd29ybGQ=", // valid base64, but not a zlib stream
		"éÿmangled",
	} {
		if got := Recover(input); got != failedMessage {
			t.Fatalf("Expected failure message for %q, got %q", input, got)
		}
	}
}

func TestRecoverInvalidUTF8Payload(t *testing.T) {
	// a perfectly good zlib stream whose payload is not UTF-8 text
	compressed, err := CompressBytes([]byte{0xff, 0xfe, 0x00, 0x80, 0xff}, AlgorithmZlib, 0)
	if err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}

	if got := Recover(singleByteString(compressed)); got != failedMessage {
		t.Fatalf("Expected failure message for non-UTF-8 payload, got %q", got)
	}
}

func TestRecoverWideCharInput(t *testing.T) {
	// code points above 0xFF cannot be reinterpreted as single bytes
	if got := Recover("世界"); got != failedMessage {
		t.Fatalf("Expected failure message for wide input, got %q", got)
	}
}

func TestRecoverBytesBinary(t *testing.T) {
	// compressed streams contain bytes that are not valid UTF-8; a naive
	// string conversion would turn them into U+FFFD and lose them
	for _, algo := range []Algorithm{AlgorithmZlib, AlgorithmGzip} {
		const plaintext = "binary-safe input path"
		raw := mustCompress(t, algo, plaintext)
		if strings.ToValidUTF8(string(raw), "") == string(raw) {
			t.Fatalf("%s: fixture is accidentally valid UTF-8, pick other plaintext", algo)
		}

		if got := RecoverBytes(raw); got != plaintext {
			t.Fatalf("%s: expected %q, got %q", algo, plaintext, got)
		}
	}
}

func TestRecoverBytesGarbage(t *testing.T) {
	if got := RecoverBytes([]byte{0x00, 0xde, 0xad, 0xbe, 0xef}); got != failedMessage {
		t.Fatalf("Expected failure message, got %q", got)
	}
}

func TestRecoverStrategyOrder(t *testing.T) {
	orig := recoverStrategies
	defer func() { recoverStrategies = orig }()

	var calls []string
	fail := func(name string) recoverStrategy {
		return func(string) (string, error) {
			calls = append(calls, name)
			return "", errors.New(name + " failed")
		}
	}
	succeed := func(name string) recoverStrategy {
		return func(string) (string, error) {
			calls = append(calls, name)
			return name + " wins", nil
		}
	}
	recoverStrategies = []recoverStrategy{
		fail("first"),
		fail("second"),
		succeed("third"),
		succeed("fourth"),
	}

	if got := Recover("input"); got != "third wins" {
		t.Fatalf("Expected first successful strategy to win, got %q", got)
	}
	if strings.Join(calls, ",") != "first,second,third" {
		t.Fatalf("Unexpected strategy invocations %v", calls)
	}
}

func TestRecoverPanicNormalized(t *testing.T) {
	orig := recoverStrategies
	defer func() { recoverStrategies = orig }()

	recoverStrategies = []recoverStrategy{
		func(string) (string, error) { panic("boom") },
	}

	if got := Recover("input"); got != "Error: boom" {
		t.Fatalf("Expected %q, got %q", "Error: boom", got)
	}
}

func TestRecoverIdempotent(t *testing.T) {
	inputs := []string{
		base64.StdEncoding.EncodeToString(mustCompress(t, AlgorithmZlib, "hello world")),
		"not compressed data at all",
	}
	for _, input := range inputs {
		first := Recover(input)
		second := Recover(input)
		if first != second {
			t.Fatalf("Recover not idempotent for %q: %q vs %q", input, first, second)
		}
	}
}
