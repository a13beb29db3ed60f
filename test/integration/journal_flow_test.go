package integration

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"daily-journal-be/internal/bootstrap"
	"daily-journal-be/internal/config"
	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/pkg/serverutils"
	"daily-journal-be/internal/server"
	"daily-journal-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestJournalEntryFlow(t *testing.T) {
	// Setup
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
		// Fix for middleware mismatch if .env missing
		os.Setenv("JWT_SECRET", "default_secret")
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// 1. Seed an active user
	userPass := "flowuser123"
	userHash, _ := bcrypt.GenerateFromPassword([]byte(userPass), bcrypt.DefaultCost)
	userHashStr := string(userHash)

	userId := uuid.New()
	user := &entity.User{
		Id:             userId,
		Email:          "flowuser@example.com",
		FullName:       "Flow User",
		PasswordHash:   &userHashStr,
		Role:           entity.UserRoleUser,
		Status:         entity.UserStatusActive,
		EmailVerified:  true,
		EncryptionSalt: "00112233445566778899aabbccddeeff",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	db.Create(user)
	defer db.Delete(&entity.User{}, userId)

	// Login to get token
	loginReq := dto.LoginRequest{
		Email:    "flowuser@example.com",
		Password: userPass,
	}
	loginBody, _ := json.Marshal(loginReq)
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(string(loginBody)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var loginRes serverutils.ApiResponse[dto.LoginResponse]
	json.NewDecoder(resp.Body).Decode(&loginRes)
	token := loginRes.Data.AccessToken
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.Equal(t, "00112233445566778899aabbccddeeff", loginRes.Data.User.EncryptionSalt)
	assert.False(t, loginRes.Data.User.EncryptionEnabled)

	var entryId uuid.UUID

	t.Run("Create Entry", func(t *testing.T) {
		createReq := dto.CreateEntryRequest{
			Content:         "integration test entry",
			ContentEncoding: "plaintext",
			EntryDate:       "2026-01-15",
		}
		createBody, _ := json.Marshal(createReq)

		req := httptest.NewRequest("POST", "/api/entry/v1", strings.NewReader(string(createBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var createRes serverutils.ApiResponse[dto.CreateEntryResponse]
		json.NewDecoder(resp.Body).Decode(&createRes)
		assert.NotEqual(t, uuid.Nil, createRes.Data.Id)
		entryId = createRes.Data.Id
	})

	t.Run("List Entries By Date", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/entry/v1?date=2026-01-15", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var listRes serverutils.ApiResponse[dto.ListEntriesResponse]
		json.NewDecoder(resp.Body).Decode(&listRes)
		assert.GreaterOrEqual(t, listRes.Data.Total, 1)

		found := false
		for _, e := range listRes.Data.Entries {
			if e.Id == entryId {
				found = true
				assert.Equal(t, "integration test entry", e.Content)
				assert.Equal(t, "plaintext", e.ContentEncoding)
			}
		}
		assert.True(t, found, "Created entry should appear in the day listing")
	})

	t.Run("Calendar Summary", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/entry/v1/calendar?from=2026-01-01&to=2026-01-31", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var calRes serverutils.ApiResponse[dto.CalendarSummaryResponse]
		json.NewDecoder(resp.Body).Decode(&calRes)

		found := false
		for _, d := range calRes.Data.Days {
			if d.Date == "2026-01-15" {
				found = true
				assert.GreaterOrEqual(t, d.Count, 1)
			}
		}
		assert.True(t, found, "Calendar should report the entry's day")
	})

	t.Run("Update Entry", func(t *testing.T) {
		updateReq := dto.UpdateEntryRequest{
			Content:         "updated content",
			ContentEncoding: "plaintext",
		}
		updateBody, _ := json.Marshal(updateReq)

		req := httptest.NewRequest("PUT", "/api/entry/v1/"+entryId.String(), strings.NewReader(string(updateBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Delete Entry", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/entry/v1/"+entryId.String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		// Gone now
		req = httptest.NewRequest("GET", "/api/entry/v1/"+entryId.String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ = app.Test(req, -1)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Unauthenticated Request Rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/entry/v1?date=2026-01-15", nil)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestAdminDashboardStats(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
		os.Setenv("JWT_SECRET", "default_secret")
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// Seed Admin
	adminPass := "admin123"
	adminHash, _ := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	adminHashStr := string(adminHash)

	adminId := uuid.New()
	admin := &entity.User{
		Id:            adminId,
		Email:         "statsadmin@example.com",
		FullName:      "Stats Admin",
		PasswordHash:  &adminHashStr,
		Role:          entity.UserRoleAdmin,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	db.Create(admin)
	defer db.Delete(&entity.User{}, adminId)

	loginReq := dto.LoginRequest{Email: "statsadmin@example.com", Password: adminPass}
	loginBody, _ := json.Marshal(loginReq)
	req := httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(string(loginBody)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var loginRes serverutils.ApiResponse[dto.LoginResponse]
	json.NewDecoder(resp.Body).Decode(&loginRes)
	token := loginRes.Data.AccessToken
	assert.NotEmpty(t, token, "Admin token should not be empty")

	t.Run("Dashboard Stats", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/dashboard/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var statsRes serverutils.ApiResponse[dto.DashboardStatsResponse]
		json.NewDecoder(resp.Body).Decode(&statsRes)
		assert.GreaterOrEqual(t, statsRes.Data.TotalUsers, int64(1))
		assert.GreaterOrEqual(t, statsRes.Data.ActiveUsers, int64(1))
	})

	t.Run("Non Admin Rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/dashboard/stats", nil)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
