// Package api provides the HTTP implementation of the domain.PairingAPI
// interface used during device linking.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Protocol outcomes (pending, approved, forbidden) are mapped
// onto the closed domain.WaitStatus set; everything else surfaces as a
// *TransportError that the pairing loop treats as retryable.
//
// A sibling client is known to poll the request endpoint instead of the
// dedicated wait endpoint. This client sticks to the two-endpoint contract:
// request announces the key once, wait is what gets polled.
package api
