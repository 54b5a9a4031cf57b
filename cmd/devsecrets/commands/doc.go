// Package commands defines the devsecrets CLI.
//
// Commands
//
//   - keygen   Print a random master key
//   - send     Read lines from stdin and send each as one message
//   - receive  Poll the queue and print messages until interrupted
//
// Both ends pick the same --profile:
//
//	none                    plaintext
//	static-key              one shared key, no counter (receive prints a key)
//	derived-key             per-message keys from a shared master key
//	derived-key-agreement   per-message keys from an X25519 agreement
//
// # Implementation
//
// Settings come from --config (YAML) with flags taking precedence. Each
// command builds an app.Wire (logger and transport) when it starts and
// closes it on exit. Keys and plaintext are never logged.
package commands
