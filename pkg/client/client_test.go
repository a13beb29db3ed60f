package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/pkg/cryptobox"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is an in-memory stand-in for the API. It stores whatever opaque
// content the client sends, which is exactly what the real server does.
type fakeServer struct {
	t *testing.T

	user struct {
		email             string
		password          string
		salt              string
		encryptionEnabled bool
	}
	entries map[uuid.UUID]*dto.ShowEntryResponse

	lastAnalysisReq    *dto.GenerateAnalysisRequest
	lastAnalysisUpdate *dto.UpdateAnalysisRequest
}

func newFakeServer(t *testing.T, encryptionEnabled bool) (*fakeServer, *httptest.Server) {
	fs := &fakeServer{t: t, entries: map[uuid.UUID]*dto.ShowEntryResponse{}}
	fs.user.email = "alice@example.com"
	fs.user.password = "correct horse"
	fs.user.salt = "a1b2c3d4e5f60718a1b2c3d4e5f60718"
	fs.user.encryptionEnabled = encryptionEnabled

	srv := httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeServer) reply(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
		"data":    data,
	})
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/auth/login" && r.Method == http.MethodPost:
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != fs.user.email || req.Password != fs.user.password {
			fs.reply(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		fs.reply(w, http.StatusOK, "Login successful", dto.LoginResponse{
			AccessToken: "test-token",
			User: dto.UserDTO{
				Id:                uuid.New(),
				Email:             fs.user.email,
				EncryptionSalt:    fs.user.salt,
				EncryptionEnabled: fs.user.encryptionEnabled,
			},
		})

	case r.URL.Path == "/api/auth/logout" && r.Method == http.MethodPost:
		fs.reply(w, http.StatusOK, "Logged out", nil)

	case r.URL.Path == "/api/entry/v1" && r.Method == http.MethodPost:
		var req dto.CreateEntryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		id := uuid.New()
		fs.entries[id] = &dto.ShowEntryResponse{
			Id:              id,
			Content:         req.Content,
			ContentEncoding: req.ContentEncoding,
			EntryDate:       req.EntryDate,
			CreatedAt:       time.Now(),
		}
		fs.reply(w, http.StatusOK, "Success create entry", dto.CreateEntryResponse{Id: id})

	case r.URL.Path == "/api/entry/v1" && r.Method == http.MethodGet:
		var out []dto.ShowEntryResponse
		for _, e := range fs.entries {
			out = append(out, *e)
		}
		fs.reply(w, http.StatusOK, "Success list entries", dto.ListEntriesResponse{Entries: out, Total: len(out)})

	case strings.HasPrefix(r.URL.Path, "/api/entry/v1/") && r.Method == http.MethodGet:
		id, _ := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/entry/v1/"))
		e, ok := fs.entries[id]
		if !ok {
			fs.reply(w, http.StatusNotFound, "entry not found", nil)
			return
		}
		fs.reply(w, http.StatusOK, "Success show entry", e)

	case r.URL.Path == "/api/analysis/v1/generate" && r.Method == http.MethodPost:
		var req dto.GenerateAnalysisRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		fs.lastAnalysisReq = &req
		fs.reply(w, http.StatusOK, "Success generate analysis", dto.AnalysisResponse{
			Id:          uuid.New(),
			Period:      req.Period,
			PeriodStart: req.PeriodStart,
			Content:     "a calm and steady week",
			Model:       "test-model",
		})

	case strings.HasPrefix(r.URL.Path, "/api/analysis/v1/") && r.Method == http.MethodPut:
		var req dto.UpdateAnalysisRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		fs.lastAnalysisUpdate = &req
		fs.reply(w, http.StatusOK, "Success update analysis", nil)

	case r.URL.Path == "/api/user/v1/encryption" && r.Method == http.MethodPut:
		var req dto.SetEncryptionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != fs.user.password {
			fs.reply(w, http.StatusBadRequest, "invalid password", nil)
			return
		}
		fs.user.encryptionEnabled = req.Enabled
		fs.reply(w, http.StatusOK, "Success update encryption setting", dto.SetEncryptionResponse{
			EncryptionEnabled: req.Enabled,
			EncryptionSalt:    fs.user.salt,
		})

	default:
		fs.reply(w, http.StatusNotFound, "not found", nil)
	}
}

func TestPlaintextAccountRoundTrip(t *testing.T) {
	fs, srv := newFakeServer(t, false)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))
	assert.False(t, c.EncryptionEnabled())

	id, err := c.AddEntry(ctx, "2026-03-01", "walked in the rain")
	require.NoError(t, err)

	// Server stored it verbatim
	assert.Equal(t, "walked in the rain", fs.entries[id].Content)
	assert.Equal(t, "plaintext", fs.entries[id].ContentEncoding)

	got, err := c.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "walked in the rain", got.Content)
	assert.False(t, got.Encrypted)
	assert.NoError(t, got.DecryptErr)
}

func TestEncryptedAccountSealsBeforeSend(t *testing.T) {
	fs, srv := newFakeServer(t, true)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))
	assert.True(t, c.EncryptionEnabled())

	id, err := c.AddEntry(ctx, "2026-03-01", "secret thoughts")
	require.NoError(t, err)

	// The server never saw plaintext
	stored := fs.entries[id]
	assert.Equal(t, "aes256gcm", stored.ContentEncoding)
	assert.True(t, strings.HasPrefix(stored.Content, cryptobox.EnvelopePrefix))
	assert.NotContains(t, stored.Content, "secret thoughts")

	got, err := c.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "secret thoughts", got.Content)
	assert.True(t, got.Encrypted)
}

func TestMixedHistoryAllReadable(t *testing.T) {
	fs, srv := newFakeServer(t, true)
	c := New(srv.URL)
	ctx := context.Background()

	// Rows written before encryption was enabled
	for i := 0; i < 3; i++ {
		id := uuid.New()
		fs.entries[id] = &dto.ShowEntryResponse{
			Id:              id,
			Content:         "old plaintext entry",
			ContentEncoding: "plaintext",
			EntryDate:       "2026-02-01",
			CreatedAt:       time.Now(),
		}
	}

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))
	_, err := c.AddEntry(ctx, "2026-03-01", "new encrypted entry")
	require.NoError(t, err)

	entries, err := c.ListEntries(ctx, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var plain, sealed int
	for _, e := range entries {
		require.NoError(t, e.DecryptErr)
		if e.Encrypted {
			sealed++
			assert.Equal(t, "new encrypted entry", e.Content)
		} else {
			plain++
			assert.Equal(t, "old plaintext entry", e.Content)
		}
	}
	assert.Equal(t, 3, plain)
	assert.Equal(t, 1, sealed)
}

func TestDecryptFailureMarksItemNotBatch(t *testing.T) {
	fs, srv := newFakeServer(t, true)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))

	goodId, err := c.AddEntry(ctx, "2026-03-01", "readable")
	require.NoError(t, err)

	// A row sealed under a different password's key
	otherKey, err := cryptobox.DeriveKey("someone elses password", "ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	foreign, err := otherKey.Encrypt("not yours")
	require.NoError(t, err)

	badId := uuid.New()
	fs.entries[badId] = &dto.ShowEntryResponse{
		Id:              badId,
		Content:         foreign,
		ContentEncoding: "aes256gcm",
		EntryDate:       "2026-03-01",
		CreatedAt:       time.Now(),
	}

	entries, err := c.ListEntries(ctx, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		switch e.Id {
		case goodId:
			assert.NoError(t, e.DecryptErr)
			assert.Equal(t, "readable", e.Content)
		case badId:
			assert.ErrorIs(t, e.DecryptErr, cryptobox.ErrDecrypt)
			assert.Empty(t, e.Content)
		default:
			t.Fatalf("unexpected entry %s", e.Id)
		}
	}
}

func TestUntaggedEnvelopeStillDecrypted(t *testing.T) {
	fs, srv := newFakeServer(t, true)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))

	// Simulate a legacy row: envelope content, no encoding tag
	key, err := cryptobox.DeriveKey("correct horse", fs.user.salt)
	require.NoError(t, err)
	envelope, err := key.Encrypt("legacy sealed entry")
	require.NoError(t, err)

	id := uuid.New()
	fs.entries[id] = &dto.ShowEntryResponse{
		Id:              id,
		Content:         envelope,
		ContentEncoding: "",
		EntryDate:       "2026-01-15",
		CreatedAt:       time.Now(),
	}

	got, err := c.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "legacy sealed entry", got.Content)
}

func TestLogoutClearsKey(t *testing.T) {
	_, srv := newFakeServer(t, true)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))
	require.True(t, c.codec.Enabled())

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.codec.Enabled())
	assert.False(t, c.EncryptionEnabled())
}

func TestEnableEncryptionLifecycle(t *testing.T) {
	fs, srv := newFakeServer(t, false)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))
	require.False(t, c.EncryptionEnabled())

	require.NoError(t, c.EnableEncryption(ctx, "correct horse"))
	assert.True(t, c.EncryptionEnabled())

	id, err := c.AddEntry(ctx, "2026-03-02", "now sealed")
	require.NoError(t, err)
	assert.Equal(t, "aes256gcm", fs.entries[id].ContentEncoding)

	require.NoError(t, c.DisableEncryption(ctx, "correct horse"))
	assert.False(t, c.EncryptionEnabled())

	id2, err := c.AddEntry(ctx, "2026-03-02", "plain again")
	require.NoError(t, err)
	assert.Equal(t, "plaintext", fs.entries[id2].ContentEncoding)
}

func TestAnalyzeSubmitsPlaintextForEncryptedAccount(t *testing.T) {
	fs, srv := newFakeServer(t, true)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))

	_, err := c.AddEntry(ctx, "2026-03-02", "tuesday was quiet")
	require.NoError(t, err)
	_, err = c.AddEntry(ctx, "2026-03-04", "thursday was loud")
	require.NoError(t, err)

	res, err := c.Analyze(ctx, "week", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "week", res.Period)

	// The generate request carried the decrypted texts, not envelopes
	require.NotNil(t, fs.lastAnalysisReq)
	require.Len(t, fs.lastAnalysisReq.Contents, 2)
	texts := []string{fs.lastAnalysisReq.Contents[0].Content, fs.lastAnalysisReq.Contents[1].Content}
	assert.ElementsMatch(t, []string{"tuesday was quiet", "thursday was loud"}, texts)

	// The generated plaintext was sealed back at rest
	assert.Equal(t, "a calm and steady week", res.Content)
	require.NotNil(t, fs.lastAnalysisUpdate)
	assert.Equal(t, "aes256gcm", fs.lastAnalysisUpdate.ContentEncoding)
	assert.True(t, strings.HasPrefix(fs.lastAnalysisUpdate.Content, cryptobox.EnvelopePrefix))
}

func TestAnalyzePlaintextAccountSendsNoContents(t *testing.T) {
	fs, srv := newFakeServer(t, false)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "alice@example.com", "correct horse", false))

	_, err := c.Analyze(ctx, "day", "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, fs.lastAnalysisReq)
	assert.Empty(t, fs.lastAnalysisReq.Contents)
}

func TestAPIErrorSurfaced(t *testing.T) {
	_, srv := newFakeServer(t, false)
	c := New(srv.URL)

	err := c.Login(context.Background(), "alice@example.com", "wrong", false)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
