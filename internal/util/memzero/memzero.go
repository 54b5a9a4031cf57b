// Package memzero wipes secret buffers: master secrets, message keys,
// X25519 private keys and decrypted plaintext.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros through subtle.ConstantTimeCopy, which the
// compiler does not elide as a dead store.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
