package pairing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/denysvitali/trustcore/internal/crypto"
	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/util/memzero"
)

// State tracks where a requester session is in the linking protocol.
type State int

const (
	StateIdle State = iota
	StateAwaitingApproval
	StateApproved
	StateRejected
	StateExpired
	StateFailed
)

// String returns a human-readable form of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingApproval:
		return "awaiting-approval"
	case StateApproved:
		return "approved"
	case StateRejected:
		return "rejected"
	case StateExpired:
		return "expired"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Defaults for the polling loop. The deadline is wall-clock: an attempt the
// approver never answers collapses into StateExpired rather than polling
// forever.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultDeadline     = 3 * time.Minute
)

var (
	// ErrRejected means the approving device refused the request. Terminal;
	// a new attempt needs a brand-new session.
	ErrRejected = errors.New("pairing: request rejected by the approving device")
	// ErrExpired means no terminal answer arrived before the deadline.
	ErrExpired = errors.New("pairing: no approval before the deadline")
	// ErrTampered means the credential bundle failed authentication. The
	// session's ephemeral key is burned and is never retried.
	ErrTampered = errors.New("pairing: credential bundle failed authentication")
	// ErrNotAwaiting is returned by Wait when the session is not in
	// StateAwaitingApproval.
	ErrNotAwaiting = errors.New("pairing: session is not awaiting approval")
	// ErrAlreadyStarted is returned by Start on a session that left Idle.
	ErrAlreadyStarted = errors.New("pairing: session already started")
	// ErrPollInProgress is returned when Wait is called while another Wait
	// on the same session is still running.
	ErrPollInProgress = errors.New("pairing: polling loop already running")
)

// Options tunes a session's polling loop. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	Deadline     time.Duration
}

// Session is the requesting side of one linking attempt. It owns one
// ephemeral key pair for its whole lifetime and is not reusable: once a
// terminal state is reached or the caller cancels, the secret key is wiped
// and the session must be discarded.
type Session struct {
	api      domain.PairingAPI
	interval time.Duration
	deadline time.Duration

	mu        sync.Mutex
	state     State
	keys      domain.KeyPair
	createdAt time.Time
	polling   bool
}

// NewSession generates a fresh ephemeral key pair and returns an Idle
// session bound to api.
func NewSession(api domain.PairingAPI, opts Options) (*Session, error) {
	pub, priv, err := crypto.GenerateX25519()
	if err != nil {
		return nil, fmt.Errorf("pairing: generate ephemeral key: %w", err)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Deadline <= 0 {
		opts.Deadline = DefaultDeadline
	}
	return &Session{
		api:       api,
		interval:  opts.PollInterval,
		deadline:  opts.Deadline,
		state:     StateIdle,
		keys:      domain.KeyPair{Pub: pub, Priv: priv},
		createdAt: time.Now(),
	}, nil
}

// State reports the session's current protocol state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PublicKey returns the session's ephemeral public key.
func (s *Session) PublicKey() domain.X25519Public {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys.Pub
}

// Payload returns the QR/link payload the approving device scans.
func (s *Session) Payload() string {
	return BuildPayload(s.PublicKey())
}

// Start submits the ephemeral public key to the pairing request endpoint and
// moves the session from Idle to AwaitingApproval.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	pub := s.keys.Pub
	s.mu.Unlock()

	if err := s.api.SubmitRequest(ctx, pub); err != nil {
		return fmt.Errorf("pairing: submit request: %w", err)
	}

	s.mu.Lock()
	s.state = StateAwaitingApproval
	s.mu.Unlock()
	return nil
}

// Wait polls the pairing wait endpoint until a terminal state is reached.
//
// Outcomes:
//   - Approved: the returned bundle decrypted under the ephemeral secret;
//     the recovered credentials are returned.
//   - Rejected (ErrRejected): the approver refused; polling stops at once.
//   - Expired (ErrExpired): the deadline passed with no terminal answer.
//     Transport errors are retried silently up to that point.
//   - Failed (ErrTampered): the bundle did not authenticate; the ephemeral
//     key is burned rather than retried.
//
// Cancelling ctx stops the loop at its next suspension point, wipes the
// ephemeral secret without entering a protocol-terminal state, and returns
// the context error.
func (s *Session) Wait(ctx context.Context) (domain.Credentials, error) {
	s.mu.Lock()
	if s.state != StateAwaitingApproval {
		s.mu.Unlock()
		return domain.Credentials{}, ErrNotAwaiting
	}
	if s.polling {
		s.mu.Unlock()
		return domain.Credentials{}, ErrPollInProgress
	}
	s.polling = true
	pub := s.keys.Pub
	deadline := s.createdAt.Add(s.deadline)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.polling = false
		s.mu.Unlock()
	}()

	// Every poll runs under the protocol deadline, anchored at session
	// creation. A server that holds the wait connection open, or a
	// black-holed network, cannot keep the session in AwaitingApproval past
	// it: the in-flight request is cut off and the session expires.
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	expiry := time.NewTimer(time.Until(deadline))
	defer expiry.Stop()

	for {
		if err := ctx.Err(); err != nil {
			s.Discard()
			return domain.Credentials{}, err
		}
		if waitCtx.Err() != nil {
			s.finish(StateExpired)
			return domain.Credentials{}, ErrExpired
		}

		resp, err := s.api.PollWait(waitCtx, pub)
		if err == nil {
			switch resp.Status {
			case domain.WaitApproved:
				return s.finishApproved(resp)
			case domain.WaitForbidden:
				s.finish(StateRejected)
				return domain.Credentials{}, ErrRejected
			case domain.WaitPending:
				// keep polling
			}
		} else {
			if ctx.Err() != nil {
				s.Discard()
				return domain.Credentials{}, ctx.Err()
			}
			if waitCtx.Err() != nil {
				s.finish(StateExpired)
				return domain.Credentials{}, ErrExpired
			}
			// A transport error inside the deadline is retried like a
			// pending response.
		}

		select {
		case <-ctx.Done():
			s.Discard()
			return domain.Credentials{}, ctx.Err()
		case <-expiry.C:
			s.finish(StateExpired)
			return domain.Credentials{}, ErrExpired
		case <-time.After(s.interval):
		}
	}
}

// finishApproved decrypts the credential bundle and resolves the session.
func (s *Session) finishApproved(resp domain.WaitResponse) (domain.Credentials, error) {
	s.mu.Lock()
	priv := s.keys.Priv
	s.mu.Unlock()

	plaintext, err := crypto.OpenAnonymous(resp.Bundle, priv)
	if err != nil {
		s.finish(StateFailed)
		return domain.Credentials{}, ErrTampered
	}
	creds, err := decodeCredentials(plaintext, resp.Token)
	memzero.Zero(plaintext)
	if err != nil {
		s.finish(StateFailed)
		return domain.Credentials{}, err
	}
	s.finish(StateApproved)
	return creds, nil
}

// finish records a terminal state and wipes the ephemeral secret.
func (s *Session) finish(st State) {
	s.mu.Lock()
	s.state = st
	memzero.Zero(s.keys.Priv[:])
	s.mu.Unlock()
}

// Discard wipes the ephemeral secret without entering a terminal state.
// Used on cancellation; safe to call more than once.
func (s *Session) Discard() {
	s.mu.Lock()
	memzero.Zero(s.keys.Priv[:])
	s.mu.Unlock()
}
