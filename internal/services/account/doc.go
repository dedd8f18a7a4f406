// Package account holds the active master secret behind an explicit session
// object. Every component that needs key material receives the session (or a
// key derived from it) as an argument; there is no ambient global secret.
package account
