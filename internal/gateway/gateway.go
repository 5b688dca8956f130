package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hr-pipeline/internal/pipeline"
	"hr-pipeline/internal/session"
	httpclient "hr-pipeline/pkg/http"
)

// Client issues requests to the HR API. It attaches the session's bearer
// token and, on an authorization failure, performs exactly one
// refresh-and-retry cycle; a second failure clears the session and surfaces
// ErrSessionExpired. All other failures pass through unmodified.
type Client struct {
	baseURL string
	http    *httpclient.Client
	sess    *session.Session
}

func NewClient(baseURL string, sess *session.Session, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(timeout),
		sess:    sess,
	}
}

// Call executes an abstract operation with a JSON payload, decoding the
// response into out when out is non-nil.
func (c *Client) Call(ctx context.Context, op, id string, payload, out any) error {
	r, ok := routes[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encode payload: %w", op, err)
		}
		body = b
	}
	return c.doWithAuthRetry(ctx, op, r.method, r.url(c.baseURL, id, ""), "application/json", body, out)
}

func (c *Client) get(ctx context.Context, op string, query url.Values, out any) error {
	r, ok := routes[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	return c.doWithAuthRetry(ctx, op, r.method, r.url(c.baseURL, "", query.Encode()), "", nil, out)
}

// doWithAuthRetry runs the request once, and on a 401 refreshes the token
// pair and retries exactly once. The body is held as bytes so the retry can
// replay it.
func (c *Client) doWithAuthRetry(ctx context.Context, op, method, u, contentType string, body []byte, out any) error {
	status, err := c.do(ctx, method, u, contentType, body, out)
	if err != nil {
		return decorate(op, err)
	}
	if status != http.StatusUnauthorized {
		return nil
	}
	if strings.HasPrefix(op, "auth.") {
		return &APIError{Op: op, StatusCode: status, Message: "unauthorized"}
	}

	log.Printf("[Gateway] %s unauthorized, refreshing token", op)
	if err := c.refresh(ctx); err != nil {
		return err
	}

	status, err = c.do(ctx, method, u, contentType, body, out)
	if err != nil {
		return decorate(op, err)
	}
	if status == http.StatusUnauthorized {
		log.Printf("[Gateway] %s unauthorized after refresh, ending session", op)
		c.sess.Clear()
		return ErrSessionExpired
	}
	return nil
}

// do returns (status, nil) for 2xx (out decoded) and 401; every other
// non-2xx status is returned as an *APIError. Transport failures come back
// as plain errors.
func (c *Client) do(ctx context.Context, method, u, contentType string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, err
	}
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.sess.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: readAPIMessage(resp.Body)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

// decorate stamps the operation name onto the error without double-wrapping
// API failures.
func decorate(op string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		apiErr.Op = op
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}

func readAPIMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges the refresh token for a new pair. Any failure here ends
// the session.
func (c *Client) refresh(ctx context.Context) error {
	rt := c.sess.RefreshToken()
	if rt == "" {
		c.sess.Clear()
		return ErrSessionExpired
	}
	var pair tokenPair
	if err := c.Call(ctx, "auth.refresh", "", map[string]string{"refreshToken": rt}, &pair); err != nil {
		c.sess.Clear()
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	c.sess.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

type loginResponse struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         session.User        `json:"user"`
	Permissions  map[string][]string `json:"permissions"`
}

// Login authenticates and installs the identity into the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp loginResponse
	payload := map[string]string{"username": username, "password": password}
	if err := c.Call(ctx, "auth.login", "", payload, &resp); err != nil {
		return err
	}
	c.sess.Begin(resp.User, resp.Permissions, resp.AccessToken, resp.RefreshToken)
	return nil
}

// PersistTransition persists one stage transition. Implements
// pipeline.Remote.
func (c *Client) PersistTransition(ctx context.Context, op, candidateID string, payload pipeline.Payload) error {
	return c.Call(ctx, op, candidateID, payload, nil)
}

// FetchByStage returns the candidates currently in a stage.
func (c *Client) FetchByStage(ctx context.Context, stage pipeline.Stage) ([]*pipeline.Candidate, error) {
	var out []*pipeline.Candidate
	q := url.Values{"stage": {string(stage)}}
	if err := c.get(ctx, "candidates.getByStage", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchByRequirement returns the candidates sourced against a requirement.
func (c *Client) FetchByRequirement(ctx context.Context, requirementID string) ([]*pipeline.Candidate, error) {
	var out []*pipeline.Candidate
	q := url.Values{"requirementId": {requirementID}}
	if err := c.get(ctx, "candidates.getByRequirement", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchByID returns one candidate.
func (c *Client) FetchByID(ctx context.Context, id string) (*pipeline.Candidate, error) {
	var out pipeline.Candidate
	if err := c.Call(ctx, "candidates.getById", id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type uploadMetadata struct {
	RequirementID string                     `json:"requirementId"`
	Candidates    []pipeline.IntakeCandidate `json:"candidates"`
}

// UploadCandidates sends an intake batch as one multipart request: every CV
// file plus a single JSON metadata part. This is the only non-JSON request
// shape. Implements pipeline.Remote.
func (c *Client) UploadCandidates(ctx context.Context, requirementID string, batch []pipeline.IntakeCandidate) ([]*pipeline.Candidate, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(uploadMetadata{RequirementID: requirementID, Candidates: batch})
	if err != nil {
		return nil, fmt.Errorf("encode upload metadata: %w", err)
	}
	if err := w.WriteField("metadata", string(meta)); err != nil {
		return nil, fmt.Errorf("write metadata part: %w", err)
	}

	for _, rec := range batch {
		if rec.FilePath == "" {
			continue
		}
		part, err := w.CreateFormFile("files", filepath.Base(rec.FileName))
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		f, err := os.Open(rec.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open CV %s: %w", rec.FileName, err)
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read CV %s: %w", rec.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	r := routes["candidates.uploadCVs"]
	var created []*pipeline.Candidate
	err = c.doWithAuthRetry(ctx, "candidates.uploadCVs", r.method, r.url(c.baseURL, "", ""), w.FormDataContentType(), buf.Bytes(), &created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GenerateMessage asks the API to render a message artifact for a
// candidate. No state changes server-side.
func (c *Client) GenerateMessage(ctx context.Context, candidateID, templateType string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	payload := map[string]string{"templateType": templateType}
	if err := c.Call(ctx, "candidates.generateMessage", candidateID, payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Requirements lists requirements, optionally filtered by status.
func (c *Client) Requirements(ctx context.Context, status string) ([]*pipeline.Requirement, error) {
	var out []*pipeline.Requirement
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if err := c.get(ctx, "requirements.getAll", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRequirement raises a new hiring requirement in Pending.
func (c *Client) CreateRequirement(ctx context.Context, req *pipeline.Requirement) (*pipeline.Requirement, error) {
	var out pipeline.Requirement
	if err := c.Call(ctx, "requirements.create", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveRequirement marks a pending requirement approved.
func (c *Client) ApproveRequirement(ctx context.Context, id, approvedBy string) error {
	return c.Call(ctx, "requirements.approve", id, map[string]string{"approvedBy": approvedBy}, nil)
}

// RejectRequirement marks a pending requirement rejected.
func (c *Client) RejectRequirement(ctx context.Context, id, rejectedBy, reason string) error {
	payload := map[string]string{"rejectedBy": rejectedBy, "reason": reason}
	return c.Call(ctx, "requirements.reject", id, payload, nil)
}
