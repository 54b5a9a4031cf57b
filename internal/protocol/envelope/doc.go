// Package envelope converts envelopes to and from their text wire form.
//
// Sequenced profiles use "<decimal counter>|<HEX>", where HEX is the
// uppercase hex of nonce||ciphertext||tag. The static-key profile sends the
// bare hex. Decoding accepts either hex case and fails with domain.ErrFormat.
package envelope
