package envelope

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"devsecrets/internal/domain"
)

// Delimiter separates the counter from the ciphertext. Neither decimal digits
// nor hex use it.
const Delimiter = "|"

// Encode renders counter and ciphertext in wire form.
func Encode(counter domain.Counter, ciphertext []byte) string {
	return strconv.FormatUint(uint64(counter), 10) + Delimiter + encodeHex(ciphertext)
}

// Decode parses a wire string produced by Encode. It splits on the first
// delimiter; the counter must be a plain base-10 number that fits 32 bits.
func Decode(wire string) (domain.Envelope, error) {
	head, tail, ok := strings.Cut(wire, Delimiter)
	if !ok {
		return domain.Envelope{}, fmt.Errorf("envelope: missing %q: %w", Delimiter, domain.ErrFormat)
	}
	// Base 10 rejects signs, spaces and prefixes.
	n, err := strconv.ParseUint(head, 10, 32)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("envelope: counter %q: %w", head, domain.ErrFormat)
	}
	ct, err := decodeHex(tail)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.Envelope{Counter: domain.Counter(n), Ciphertext: ct}, nil
}

// EncodeStatic renders a ciphertext of the static-key profile.
func EncodeStatic(ciphertext []byte) string { return encodeHex(ciphertext) }

// DecodeStatic parses a wire string produced by EncodeStatic.
func DecodeStatic(wire string) ([]byte, error) { return decodeHex(wire) }

func encodeHex(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }

// decodeHex accepts the empty string so every Encode output decodes. A
// ciphertext too short to open is the cipher's to reject.
func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("envelope: ciphertext: %v: %w", err, domain.ErrFormat)
	}
	return b, nil
}
