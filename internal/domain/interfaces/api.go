package interfaces

import (
	"context"

	domaintypes "github.com/denysvitali/trustcore/internal/domain/types"
)

// PairingAPI is how we talk to the pairing endpoints of the account server,
// all with context. Implementations must map response statuses onto the
// closed WaitStatus set and return errors only for transport-level failures.
type PairingAPI interface {
	// SubmitRequest announces the requester's ephemeral public key.
	// Success acknowledges receipt only.
	SubmitRequest(ctx context.Context, pub domaintypes.X25519Public) error

	// PollWait asks whether the request identified by pub has been answered.
	PollWait(ctx context.Context, pub domaintypes.X25519Public) (domaintypes.WaitResponse, error)

	// SubmitApproval posts an encrypted credential bundle addressed to the
	// requester identified by pub.
	SubmitApproval(ctx context.Context, pub domaintypes.X25519Public, bundle []byte) error
}
