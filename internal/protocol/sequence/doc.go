// Package sequence classifies inbound message counters against the counter
// a receiver expects next.
//
// The verdict is advisory: it never blocks decryption. Callers surface
// ReplayOrLate and Gap to the user and decide what to display.
package sequence
