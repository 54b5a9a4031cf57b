// Package messaging runs a protocol session over a transport.
//
// Sender encrypts and hands wire strings to the transport. Receiver polls the
// transport, opens each delivery and acknowledges it once processed.
//
// Acknowledgement policy:
//   - Successfully decrypted deliveries are acknowledged. A failed
//     acknowledgement is reported; the redelivery will show up as a replay.
//   - Malformed and tampered deliveries are acknowledged too. Redelivering
//     them cannot make them valid.
//   - Transport failures leave the delivery unacknowledged so the queue hands
//     it out again after its visibility timeout.
package messaging
