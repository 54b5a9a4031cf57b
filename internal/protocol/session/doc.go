// Package session ties key derivation, the cipher, the envelope codec and the
// sequence guard into one sending or receiving session.
//
// A Session moves Uninitialized -> KeyEstablished -> Active. The master secret
// is set exactly once, either pre-shared (Establish) or through X25519 key
// agreement (EstablishViaAgreement), and is wiped by Close. There is no
// rekeying.
//
// Profiles reduce the same flow:
//
//   - ProfileNone passes plaintext through.
//   - ProfileStaticKey encrypts every message under the master secret and
//     sends no counter.
//   - ProfileDerivedKey and ProfileDerivedKeyWithAgreement derive a fresh key
//     per message from the master secret and the message counter.
//
// A Session does no I/O and is not safe for concurrent use.
package session
