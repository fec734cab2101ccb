// Package api is the HTTP/JSON client for the Resonance Remote API.
// Responses with the uniform error envelope are decoded into the shared
// sentinel errors so callers can branch on taxonomy, not status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/resonance-app/resonance/internal/common"
)

// TokenSource supplies the current bearer token; "" means unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeError maps the envelope's machine-readable code onto a sentinel.
func decodeError(status int, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Code == "" {
		return fmt.Errorf("%w: unexpected response status %d", common.ErrInternal, status)
	}

	var sentinel error
	switch env.Error.Code {
	case "VALIDATION_ERROR":
		sentinel = common.ErrValidation
	case "REFRESH_REVOKED":
		sentinel = common.ErrRefreshTokenRevoked
	case "REFRESH_EXPIRED":
		sentinel = common.ErrRefreshTokenExpired
	case "UNAUTHORIZED":
		sentinel = common.ErrAuth
	case "ACCESS_DENIED":
		sentinel = common.ErrAccessDenied
	case "GONE":
		sentinel = common.ErrGone
	case "NOT_FOUND":
		sentinel = common.ErrNotFound
	case "CONFLICT":
		sentinel = common.ErrConflict
	case "STORAGE_FAILURE":
		sentinel = common.ErrStorageFailure
	default:
		sentinel = common.ErrInternal
	}
	return fmt.Errorf("%w: %s", sentinel, env.Error.Message)
}

// do performs one request. A nil in means no body; a nil out discards the
// response body. authed requests carry the current bearer token.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) IssueDevCode(ctx context.Context, role string) (string, error) {
	var out struct {
		Code string `json:"code"`
	}
	err := c.do(ctx, http.MethodPost, "/dev/issue", map[string]string{"role": role}, &out, false)
	return out.Code, err
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*SessionResult, error) {
	out := &SessionResult{}
	err := c.do(ctx, http.MethodPost, "/auth/session", map[string]string{"code": code}, out, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	out := &TokenPair{}
	err := c.do(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refreshToken}, out, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	out := &User{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEntries(ctx context.Context, courseID string) ([]Entry, error) {
	var out []Entry
	if err := c.do(ctx, http.MethodGet, "/courses/"+courseID+"/entries", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEntry(ctx context.Context, courseID string, req *CreateEntryRequest) (*Entry, error) {
	out := &Entry{}
	if err := c.do(ctx, http.MethodPost, "/courses/"+courseID+"/entries", req, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PatchEntry(ctx context.Context, entryID string, req *PatchEntryRequest) (*Entry, error) {
	out := &Entry{}
	if err := c.do(ctx, http.MethodPatch, "/entries/"+entryID, req, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteEntry(ctx context.Context, entryID string) error {
	return c.do(ctx, http.MethodDelete, "/entries/"+entryID, nil, nil, true)
}

func (c *Client) SubmitEntry(ctx context.Context, entryID string) (*Entry, error) {
	out := &Entry{}
	if err := c.do(ctx, http.MethodPost, "/entries/"+entryID+"/submit", nil, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateArtifact(ctx context.Context, entryID string, req *CreateArtifactRequest) (*Artifact, error) {
	out := &Artifact{}
	if err := c.do(ctx, http.MethodPost, "/entries/"+entryID+"/artifacts", req, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PresignArtifact(ctx context.Context, artifactID string) (*Presign, error) {
	out := &Presign{}
	if err := c.do(ctx, http.MethodPost, "/artifacts/"+artifactID+"/presign", nil, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ConfirmArtifact(ctx context.Context, artifactID string) (*Artifact, error) {
	out := &Artifact{}
	if err := c.do(ctx, http.MethodPost, "/artifacts/"+artifactID+"/confirm", nil, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PostFeedback(ctx context.Context, req *PostFeedbackRequest) (*Feedback, error) {
	out := &Feedback{}
	if err := c.do(ctx, http.MethodPost, "/feedback", req, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListFeedback(ctx context.Context, entryID string) ([]Feedback, error) {
	var out []Feedback
	if err := c.do(ctx, http.MethodGet, "/entries/"+entryID+"/feedback", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReviewQueue(ctx context.Context, courseID string) ([]ReviewEntry, error) {
	var out []ReviewEntry
	if err := c.do(ctx, http.MethodGet, "/courses/"+courseID+"/review-queue", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}
