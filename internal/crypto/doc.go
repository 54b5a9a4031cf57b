// Package crypto exposes the primitives the messaging protocol composes.
//
// Contents
//
//   - X25519 key pairs and key agreement (GenerateKeyPair, Agree). The local
//     private key is destroyed by the caller once the shared secret exists.
//   - The per-message key derivation: NIST SP 800-108 in counter mode over
//     HMAC-SHA256 (DeriveKey, MessageKey).
//   - The authenticated cipher adapter over XChaCha20-Poly1305 (Encrypt,
//     Decrypt). Decrypt verifies the tag before releasing any plaintext.
//   - Master key helpers: random generation, hex parsing, passphrase
//     stretching with Argon2id.
//   - Short public-key fingerprints for display (Fingerprint).
//
// # Notes
//
// Errors wrap the sentinels in internal/domain (ErrInvalidInput, ErrTampered).
// Callers should treat returned secrets as sensitive and wipe them with
// memzero.Zero as soon as they are no longer needed. Nothing here logs.
package crypto
