package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/denysvitali/trustcore/internal/domain"
)

const (
	requestPath  = "/v1/pairing/request"
	waitPath     = "/v1/pairing/wait"
	responsePath = "/v1/pairing/response"
)

// TransportError is a network or server failure that carries no protocol
// meaning. The pairing loop retries these within its deadline instead of
// treating them as terminal.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("api: %s: unexpected status %d", e.Op, e.Status)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the account server's pairing endpoints.
type Client struct {
	Base string
	HTTP *http.Client
}

// New returns a pairing client for the given base URL. A nil httpClient
// falls back to http.DefaultClient.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: httpClient}
}

var _ domain.PairingAPI = (*Client)(nil)

type pairingRequest struct {
	PublicKey string `json:"publicKey"`
}

type approvalRequest struct {
	PublicKey string `json:"publicKey"`
	Secret    string `json:"secret"`
}

type waitBody struct {
	Token  string `json:"token"`
	Secret string `json:"secret"`
}

// SubmitRequest announces the requester's ephemeral public key. Success
// acknowledges receipt only.
func (c *Client) SubmitRequest(ctx context.Context, pub domain.X25519Public) error {
	resp, err := c.post(ctx, requestPath, pairingRequest{PublicKey: b64(pub[:])})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &TransportError{Op: "submit request", Status: resp.StatusCode}
	}
	return nil
}

// PollWait performs one poll of the wait endpoint and maps the response onto
// the closed WaitStatus set:
//
//	2xx with a body  -> WaitApproved (token + decoded bundle)
//	2xx without body -> WaitPending
//	403              -> WaitForbidden
//	anything else    -> *TransportError (retryable)
func (c *Client) PollWait(ctx context.Context, pub domain.X25519Public) (domain.WaitResponse, error) {
	resp, err := c.post(ctx, waitPath, pairingRequest{PublicKey: b64(pub[:])})
	if err != nil {
		return domain.WaitResponse{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return domain.WaitResponse{Status: domain.WaitForbidden}, nil
	case resp.StatusCode == http.StatusNoContent:
		return domain.WaitResponse{Status: domain.WaitPending}, nil
	case resp.StatusCode/100 != 2:
		return domain.WaitResponse{}, &TransportError{Op: "wait", Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WaitResponse{}, &TransportError{Op: "wait", Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.WaitResponse{Status: domain.WaitPending}, nil
	}

	var body waitBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.WaitResponse{}, &TransportError{Op: "wait", Err: err}
	}
	if body.Secret == "" {
		return domain.WaitResponse{Status: domain.WaitPending}, nil
	}
	bundle, err := base64.StdEncoding.DecodeString(body.Secret)
	if err != nil {
		return domain.WaitResponse{}, &TransportError{Op: "wait", Err: err}
	}
	return domain.WaitResponse{
		Status: domain.WaitApproved,
		Token:  domain.SessionToken(body.Token),
		Bundle: bundle,
	}, nil
}

// SubmitApproval posts an encrypted credential bundle for the requester
// identified by pub.
func (c *Client) SubmitApproval(ctx context.Context, pub domain.X25519Public, bundle []byte) error {
	resp, err := c.post(ctx, responsePath, approvalRequest{
		PublicKey: b64(pub[:]),
		Secret:    b64(bundle),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &TransportError{Op: "submit approval", Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in any) (*http.Response, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, &TransportError{Op: "encode " + path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return nil, &TransportError{Op: "post " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post " + path, Err: err}
	}
	return resp, nil
}

func b64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }
