// Package client is the Go client for the journaling API. It owns the
// encryption boundary: content is sealed before it leaves this package and
// opened right after it arrives, the transport only ever carries opaque
// strings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/pkg/cryptobox"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	accessToken  string
	refreshToken string

	// codec is the session-scoped key slot. Login fills it when the account
	// has encryption enabled, Logout clears it.
	codec *cryptobox.Session

	encryptionEnabled bool
	encryptionSalt    string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		codec: cryptobox.NewSession(),
	}
}

// apiEnvelope mirrors the server's response wrapper.
type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, string(raw))
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, fullName, email, password string) error {
	req := dto.RegisterRequest{FullName: fullName, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", req, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, email, otp string) error {
	req := dto.VerifyEmailRequest{Email: email, Token: otp}
	return c.do(ctx, http.MethodPost, "/api/auth/verify-email", req, nil)
}

// Login authenticates and, when the account has encryption enabled, derives
// the content key from the password and salt and installs it in the codec
// session. The key never leaves the process.
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) error {
	req := dto.LoginRequest{Email: email, Password: password, RememberMe: rememberMe}
	var res dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &res); err != nil {
		return err
	}

	c.accessToken = res.AccessToken
	c.refreshToken = res.RefreshToken
	c.encryptionEnabled = res.User.EncryptionEnabled
	c.encryptionSalt = res.User.EncryptionSalt

	if res.User.EncryptionEnabled {
		key, err := cryptobox.DeriveKey(password, res.User.EncryptionSalt)
		if err != nil {
			// Token is already issued; drop it so the caller can't end up
			// half logged in with no usable key.
			c.accessToken = ""
			c.refreshToken = ""
			return fmt.Errorf("derive content key: %w", err)
		}
		c.codec.SetKey(key)
	}
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.accessToken != "" {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", dto.LogoutRequest{RefreshToken: c.refreshToken}, nil)
	}
	c.accessToken = ""
	c.refreshToken = ""
	c.codec.Clear()
	c.encryptionEnabled = false
	return err
}

// EncryptionEnabled reports whether the logged-in account expects envelopes.
func (c *Client) EncryptionEnabled() bool {
	return c.encryptionEnabled
}

// EnableEncryption turns on client-side encryption for the account and
// installs the derived key. Existing entries stay plaintext until rewritten.
func (c *Client) EnableEncryption(ctx context.Context, password string) error {
	req := dto.SetEncryptionRequest{Enabled: true, Password: password}
	var res dto.SetEncryptionResponse
	if err := c.do(ctx, http.MethodPut, "/api/user/v1/encryption", req, &res); err != nil {
		return err
	}

	key, err := cryptobox.DeriveKey(password, res.EncryptionSalt)
	if err != nil {
		return fmt.Errorf("derive content key: %w", err)
	}
	c.codec.SetKey(key)
	c.encryptionEnabled = true
	c.encryptionSalt = res.EncryptionSalt
	return nil
}

// DisableEncryption turns client-side encryption off and clears the key.
// Entries already stored as envelopes become unreadable until re-enabled.
func (c *Client) DisableEncryption(ctx context.Context, password string) error {
	req := dto.SetEncryptionRequest{Enabled: false, Password: password}
	if err := c.do(ctx, http.MethodPut, "/api/user/v1/encryption", req, nil); err != nil {
		return err
	}
	c.codec.Clear()
	c.encryptionEnabled = false
	return nil
}
