package domain

import "errors"

var (
	// ErrFormat marks a malformed envelope. It is not a security event; the
	// message is skipped.
	ErrFormat = errors.New("malformed envelope")

	// ErrTampered marks a message whose authentication tag did not verify. No
	// plaintext is released and the session continues.
	ErrTampered = errors.New("message failed authentication")

	// ErrInvalidInput marks a programming or configuration mistake, such as an
	// empty master secret or sending before a key is established. It fails the
	// call, not the session.
	ErrInvalidInput = errors.New("invalid input")
)
