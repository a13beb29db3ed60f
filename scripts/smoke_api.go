package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

// Manual smoke test for the journal API. Run against a local server with a
// seeded user: go run scripts/smoke_api.go
const baseURL = "http://localhost:3000/api"

var (
	email    = envOr("SMOKE_EMAIL", "smoke@example.com")
	password = envOr("SMOKE_PASSWORD", "smoke-password-123")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func check(name string, resp *http.Response, body []byte, err error, wantStatus int) bool {
	if err != nil {
		color.Red("FAIL %s: %v", name, err)
		return false
	}
	if resp.StatusCode != wantStatus {
		color.Red("FAIL %s: status %d (want %d)", name, resp.StatusCode, wantStatus)
		fmt.Println(string(body))
		return false
	}
	color.Green("PASS %s", name)
	return true
}

func main() {
	color.Cyan("== Journal API smoke test ==")

	// 1. Login
	resp, body, err := sendRequest(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if !check("login", resp, body, err, http.StatusOK) {
		os.Exit(1)
	}

	var loginRes struct {
		Data struct {
			AccessToken string `json:"access_token"`
			User        struct {
				EncryptionEnabled bool `json:"encryption_enabled"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &loginRes); err != nil {
		color.Red("FAIL decode login response: %v", err)
		os.Exit(1)
	}
	token := loginRes.Data.AccessToken
	if loginRes.Data.User.EncryptionEnabled {
		color.Yellow("account has encryption enabled, entries below go up as plaintext anyway")
	}

	// 2. Create an entry
	resp, body, err = sendRequest(http.MethodPost, "/entry/v1", token, map[string]interface{}{
		"content":          "smoke test entry",
		"content_encoding": "plaintext",
		"entry_date":       "2026-01-15",
	})
	check("create entry", resp, body, err, http.StatusOK)

	var createRes struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(body, &createRes)
	entryId := createRes.Data.Id

	// 3. List entries for the day
	resp, body, err = sendRequest(http.MethodGet, "/entry/v1?date=2026-01-15", token, nil)
	if check("list entries", resp, body, err, http.StatusOK) {
		var listRes struct {
			Data json.RawMessage `json:"data"`
		}
		_ = json.Unmarshal(body, &listRes)
		prettyPrint(json.RawMessage(listRes.Data))
	}

	// 4. Calendar summary
	resp, body, err = sendRequest(http.MethodGet, "/entry/v1/calendar?from=2026-01-01&to=2026-01-31", token, nil)
	check("calendar summary", resp, body, err, http.StatusOK)

	// 5. Generate a daily analysis
	resp, body, err = sendRequest(http.MethodPost, "/analysis/v1/generate", token, map[string]interface{}{
		"period":       "day",
		"period_start": "2026-01-15",
	})
	if check("generate analysis", resp, body, err, http.StatusOK) {
		var analysisRes struct {
			Data json.RawMessage `json:"data"`
		}
		_ = json.Unmarshal(body, &analysisRes)
		prettyPrint(json.RawMessage(analysisRes.Data))
	}

	// 6. Cleanup
	if entryId != "" {
		resp, body, err = sendRequest(http.MethodDelete, "/entry/v1/"+entryId, token, nil)
		check("delete entry", resp, body, err, http.StatusOK)
	}

	color.Cyan("== done ==")
}
