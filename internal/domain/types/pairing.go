package types

// WaitStatus is the closed set of outcomes the pairing wait endpoint can
// report. Transport failures are errors, not statuses.
type WaitStatus int

const (
	// WaitPending means the approving device has not answered yet.
	WaitPending WaitStatus = iota
	// WaitApproved means the response carries an encrypted credential bundle.
	WaitApproved
	// WaitForbidden means the request was rejected; polling must stop.
	WaitForbidden
)

// String returns a human-readable form of the status.
func (s WaitStatus) String() string {
	switch s {
	case WaitPending:
		return "pending"
	case WaitApproved:
		return "approved"
	case WaitForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// WaitResponse is one poll result from the pairing wait endpoint.
// Token and Bundle are only set when Status is WaitApproved; Bundle is the
// raw asymmetric-box bundle wrapping the account credentials.
type WaitResponse struct {
	Status WaitStatus
	Token  SessionToken
	Bundle []byte
}
