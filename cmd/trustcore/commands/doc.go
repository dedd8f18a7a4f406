// Package commands contains the cobra subcommands of the trustcore CLI:
// account creation, backup-key display and restore, fingerprint display,
// and both sides of QR device linking.
package commands
