package pairing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/denysvitali/trustcore/internal/crypto"
	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/protocol/pairing"
)

// step is one scripted answer of the fake API's wait endpoint.
type step struct {
	resp domain.WaitResponse
	err  error
}

// fakeAPI plays back a scripted sequence of wait responses. The final step
// repeats once the script runs out.
type fakeAPI struct {
	mu        sync.Mutex
	steps     []step
	requests  int
	polls     int
	approvals [][]byte
}

var _ domain.PairingAPI = (*fakeAPI)(nil)

func (f *fakeAPI) SubmitRequest(ctx context.Context, pub domain.X25519Public) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return nil
}

func (f *fakeAPI) PollWait(ctx context.Context, pub domain.X25519Public) (domain.WaitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.polls
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	f.polls++
	if len(f.steps) == 0 {
		return domain.WaitResponse{Status: domain.WaitPending}, nil
	}
	return f.steps[i].resp, f.steps[i].err
}

func (f *fakeAPI) SubmitApproval(ctx context.Context, pub domain.X25519Public, bundle []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approvals = append(f.approvals, bundle)
	return nil
}

func (f *fakeAPI) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// blockingAPI parks every wait call until its context is cut off, the way a
// long-poll endpoint that never answers would. entered is closed once the
// first call is inside PollWait.
type blockingAPI struct {
	enterOnce sync.Once
	entered   chan struct{}
}

var _ domain.PairingAPI = (*blockingAPI)(nil)

func newBlockingAPI() *blockingAPI {
	return &blockingAPI{entered: make(chan struct{})}
}

func (b *blockingAPI) SubmitRequest(ctx context.Context, pub domain.X25519Public) error {
	return nil
}

func (b *blockingAPI) PollWait(ctx context.Context, pub domain.X25519Public) (domain.WaitResponse, error) {
	b.enterOnce.Do(func() { close(b.entered) })
	<-ctx.Done()
	return domain.WaitResponse{}, ctx.Err()
}

func (b *blockingAPI) SubmitApproval(ctx context.Context, pub domain.X25519Public, bundle []byte) error {
	return nil
}

func newTestSession(t *testing.T, api domain.PairingAPI) *pairing.Session {
	t.Helper()
	sess, err := pairing.NewSession(api, pairing.Options{
		PollInterval: time.Millisecond,
		Deadline:     time.Second,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return sess
}

func startTestSession(t *testing.T, api domain.PairingAPI) *pairing.Session {
	t.Helper()
	sess := newTestSession(t, api)
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := sess.State(); got != pairing.StateAwaitingApproval {
		t.Fatalf("state after Start: %v, want awaiting-approval", got)
	}
	return sess
}

// approvedBundle wraps creds for pub the same way a real approver does.
func approvedBundle(t *testing.T, pub domain.X25519Public, creds domain.Credentials) []byte {
	t.Helper()
	pt := append(append([]byte{}, creds.Secret[:]...), creds.Token...)
	bundle, err := crypto.SealAnonymous(pt, pub)
	if err != nil {
		t.Fatalf("SealAnonymous: %v", err)
	}
	return bundle
}

func TestWait_PendingThenApproved(t *testing.T) {
	var want domain.Credentials
	for i := range want.Secret {
		want.Secret[i] = 7
	}
	want.Token = "session-token"

	api := &fakeAPI{}
	sess := startTestSession(t, api)
	bundle := approvedBundle(t, sess.PublicKey(), want)
	api.steps = []step{
		{resp: domain.WaitResponse{Status: domain.WaitPending}},
		{resp: domain.WaitResponse{Status: domain.WaitPending}},
		{resp: domain.WaitResponse{Status: domain.WaitApproved, Bundle: bundle}},
	}

	got, err := sess.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got.Secret != want.Secret {
		t.Fatal("recovered secret mismatch")
	}
	if got.Token != want.Token {
		t.Fatalf("recovered token %q, want %q", got.Token, want.Token)
	}
	if st := sess.State(); st != pairing.StateApproved {
		t.Fatalf("state: %v, want approved", st)
	}
	if api.pollCount() != 3 {
		t.Fatalf("poll count: %d, want 3", api.pollCount())
	}
}

func TestWait_TokenFallsBackToResponse(t *testing.T) {
	var want domain.Credentials
	want.Secret[0] = 1

	api := &fakeAPI{}
	sess := startTestSession(t, api)
	// Bundle carries only the secret; the token rides beside it.
	bundle := approvedBundle(t, sess.PublicKey(), domain.Credentials{Secret: want.Secret})
	api.steps = []step{{resp: domain.WaitResponse{
		Status: domain.WaitApproved,
		Token:  "outer-token",
		Bundle: bundle,
	}}}

	got, err := sess.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got.Token != "outer-token" {
		t.Fatalf("token %q, want outer-token", got.Token)
	}
}

func TestWait_ForbiddenIsImmediatelyTerminal(t *testing.T) {
	api := &fakeAPI{steps: []step{
		{resp: domain.WaitResponse{Status: domain.WaitForbidden}},
	}}
	sess := startTestSession(t, api)

	_, err := sess.Wait(context.Background())
	if !errors.Is(err, pairing.ErrRejected) {
		t.Fatalf("Wait: got %v, want ErrRejected", err)
	}
	if st := sess.State(); st != pairing.StateRejected {
		t.Fatalf("state: %v, want rejected", st)
	}
	if api.pollCount() != 1 {
		t.Fatalf("poll count after rejection: %d, want 1", api.pollCount())
	}
}

func TestWait_PendingPastDeadlineExpires(t *testing.T) {
	api := &fakeAPI{steps: []step{
		{resp: domain.WaitResponse{Status: domain.WaitPending}},
	}}
	sess, err := pairing.NewSession(api, pairing.Options{
		PollInterval: time.Millisecond,
		Deadline:     25 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := sess.Wait(context.Background()); !errors.Is(err, pairing.ErrExpired) {
		t.Fatalf("Wait: got %v, want ErrExpired", err)
	}
	if st := sess.State(); st != pairing.StateExpired {
		t.Fatalf("state: %v, want expired", st)
	}
}

func TestWait_TransientErrorsAreRetried(t *testing.T) {
	var want domain.Credentials
	want.Secret[3] = 9

	api := &fakeAPI{}
	sess := startTestSession(t, api)
	bundle := approvedBundle(t, sess.PublicKey(), want)
	api.steps = []step{
		{err: fmt.Errorf("connection refused")},
		{err: fmt.Errorf("502 bad gateway")},
		{resp: domain.WaitResponse{Status: domain.WaitApproved, Bundle: bundle}},
	}

	got, err := sess.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait after transient errors: %v", err)
	}
	if got.Secret != want.Secret {
		t.Fatal("recovered secret mismatch")
	}
}

func TestWait_TransientErrorsPastDeadlineExpire(t *testing.T) {
	api := &fakeAPI{steps: []step{
		{err: fmt.Errorf("server unreachable")},
	}}
	sess, err := pairing.NewSession(api, pairing.Options{
		PollInterval: time.Millisecond,
		Deadline:     25 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := sess.Wait(context.Background()); !errors.Is(err, pairing.ErrExpired) {
		t.Fatalf("Wait: got %v, want ErrExpired", err)
	}
}

func TestWait_TamperedBundleFails(t *testing.T) {
	var creds domain.Credentials
	creds.Secret[0] = 5

	api := &fakeAPI{}
	sess := startTestSession(t, api)
	bundle := approvedBundle(t, sess.PublicKey(), creds)
	bundle[len(bundle)-1] ^= 0xFF
	api.steps = []step{{resp: domain.WaitResponse{Status: domain.WaitApproved, Bundle: bundle}}}

	if _, err := sess.Wait(context.Background()); !errors.Is(err, pairing.ErrTampered) {
		t.Fatalf("Wait: got %v, want ErrTampered", err)
	}
	if st := sess.State(); st != pairing.StateFailed {
		t.Fatalf("state: %v, want failed", st)
	}
}

func TestWait_CancellationStopsPolling(t *testing.T) {
	api := &fakeAPI{steps: []step{
		{resp: domain.WaitResponse{Status: domain.WaitPending}},
	}}
	sess := startTestSession(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := sess.Wait(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Wait: got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestWait_HungPollStillExpires(t *testing.T) {
	api := newBlockingAPI()
	sess, err := pairing.NewSession(api, pairing.Options{
		PollInterval: time.Millisecond,
		Deadline:     50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := sess.Wait(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, pairing.ErrExpired) {
			t.Fatalf("Wait: got %v, want ErrExpired", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait stayed blocked on a hung poll past the deadline")
	}
	if st := sess.State(); st != pairing.StateExpired {
		t.Fatalf("state: %v, want expired", st)
	}
}

func TestWait_SecondCallerRejected(t *testing.T) {
	api := newBlockingAPI()
	sess := startTestSession(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := sess.Wait(ctx)
		first <- err
	}()
	<-api.entered

	if _, err := sess.Wait(context.Background()); !errors.Is(err, pairing.ErrPollInProgress) {
		t.Fatalf("second Wait: got %v, want ErrPollInProgress", err)
	}

	cancel()
	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("first Wait did not return after cancellation")
	}
}

func TestStart_OnlyOnce(t *testing.T) {
	sess := startTestSession(t, &fakeAPI{})
	if err := sess.Start(context.Background()); !errors.Is(err, pairing.ErrAlreadyStarted) {
		t.Fatalf("second Start: got %v, want ErrAlreadyStarted", err)
	}
}

func TestWait_RequiresStart(t *testing.T) {
	sess := newTestSession(t, &fakeAPI{})
	if _, err := sess.Wait(context.Background()); !errors.Is(err, pairing.ErrNotAwaiting) {
		t.Fatalf("Wait before Start: got %v, want ErrNotAwaiting", err)
	}
}

func TestApprove_EndToEnd(t *testing.T) {
	var creds domain.Credentials
	for i := range creds.Secret {
		creds.Secret[i] = byte(i)
	}
	creds.Token = "handed-off"

	api := &fakeAPI{}
	sess := startTestSession(t, api)

	// Approving device scans the payload and answers.
	if err := pairing.Approve(context.Background(), api, sess.Payload(), creds); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if len(api.approvals) != 1 {
		t.Fatalf("approvals: %d, want 1", len(api.approvals))
	}
	api.steps = []step{{resp: domain.WaitResponse{
		Status: domain.WaitApproved,
		Bundle: api.approvals[0],
	}}}

	got, err := sess.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got.Secret != creds.Secret || got.Token != creds.Token {
		t.Fatal("credentials mismatch after full link flow")
	}
	if st := sess.State(); st != pairing.StateApproved {
		t.Fatalf("state: %v, want approved", st)
	}
}

func TestApprove_RejectsBadPayload(t *testing.T) {
	err := pairing.Approve(context.Background(), &fakeAPI{}, "https://nope", domain.Credentials{})
	if !errors.Is(err, pairing.ErrBadPayload) {
		t.Fatalf("Approve: got %v, want ErrBadPayload", err)
	}
}
