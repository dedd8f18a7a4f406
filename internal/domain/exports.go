package domain

import (
	interfaces "github.com/denysvitali/trustcore/internal/domain/interfaces"
	types "github.com/denysvitali/trustcore/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	MasterSecret  = types.MasterSecret
	SubKey        = types.SubKey
	SessionToken  = types.SessionToken
	Fingerprint   = types.Fingerprint
	Credentials   = types.Credentials
	KeyPair       = types.KeyPair
	X25519Public  = types.X25519Public
	X25519Private = types.X25519Private
	WaitStatus    = types.WaitStatus
	WaitResponse  = types.WaitResponse
)

// Wait status values re-exported alongside the alias.
const (
	WaitPending   = types.WaitPending
	WaitApproved  = types.WaitApproved
	WaitForbidden = types.WaitForbidden
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	PairingAPI      = interfaces.PairingAPI
	CredentialStore = interfaces.CredentialStore
)
