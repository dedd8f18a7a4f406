// Package pairing implements QR-based device linking.
//
// # Protocol flow
//
//	Requester (new device)                Approver (authenticated device)
//	----------------------                -------------------------------
//	NewSession        -> ephemeral keypair
//	Start             -> submit public key
//	show QR payload   ----------------->  scan payload
//	Wait: poll...                         Approve: encrypt master secret +
//	                                      session token to the scanned key,
//	                  <-----------------  submit bundle
//	Wait returns Credentials; session is Approved.
//
// The requester is a small state machine
// (Idle -> AwaitingApproval -> Approved | Rejected | Expired | Failed)
// driven by a cancellable polling loop. The approver side is a stateless
// one-shot encrypt-and-submit.
//
// Each session owns exactly one ephemeral key pair. It is wiped as soon as a
// terminal state is reached or the caller cancels, and a new linking attempt
// always builds a new session.
package pairing
