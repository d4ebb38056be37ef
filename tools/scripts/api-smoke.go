// Package main provides a CI-friendly HTTP smoke test for the MindRemember API.
//
// It validates:
//   - register -> 201 with the echoed login
//   - protected endpoints reject requests without the session cookie
//   - login -> bearer token body + HttpOnly access_token cookie
//   - folder/theme/record create + owner-scoped list round trips
//   - knowledge queue create + list with next_alert_card pinned to null
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8000", "API base URL")
		login    = flag.String("login", "", "Login to register (default: generated per run)")
		password = flag.String("password", "smoke-test-password", "Password to register with")
		timeout  = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if err := validateBaseURL(*baseURL); err != nil {
		fatalf("invalid -url: %v", err)
	}
	if *login == "" {
		*login = fmt.Sprintf("smoke-%d", time.Now().UnixNano())
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}
	root := context.Background()

	userID := mustRegister(root, client, *baseURL, *login, *password, *timeout)
	if *verbose {
		fmt.Printf("registered: login=%s id=%d\n", *login, userID)
	}

	mustRejectWithoutCookie(root, *baseURL, *timeout)

	mustLogin(root, client, *baseURL, *login, *password, *timeout)
	if !hasAccessCookie(jar, *baseURL) {
		fatalf("login did not set an access_token cookie")
	}

	folderID := mustCreateFolder(root, client, *baseURL, userID, *timeout)
	mustListContainsID(root, client, *baseURL+"/folders", folderID, *timeout)

	themeID := mustCreateTheme(root, client, *baseURL, folderID, *timeout)
	mustListContainsID(root, client, fmt.Sprintf("%s/folders/%d/themes", *baseURL, folderID), themeID, *timeout)

	recordID := mustCreateRecord(root, client, *baseURL, themeID, *timeout)
	mustListContainsID(root, client, fmt.Sprintf("%s/themes/%d/records", *baseURL, themeID), recordID, *timeout)

	queueID := mustEnqueueKnowledge(root, client, *baseURL, userID, *timeout)
	mustQueueListNullAlert(root, client, *baseURL, queueID, *timeout)

	fmt.Printf("OK: login=%s user_id=%d folder_id=%d theme_id=%d record_id=%d queue_id=%d\n",
		*login, userID, folderID, themeID, recordID, queueID)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func mustRegister(parent context.Context, client *http.Client, baseURL, login, password string, stepTimeout time.Duration) int64 {
	status, body := doJSON(parent, client, http.MethodPost, baseURL+"/reg",
		map[string]any{"login": login, "password": password}, stepTimeout)
	if status != http.StatusCreated {
		fatalf("register: status=%d body=%s", status, body)
	}
	if bytes.Contains(body, []byte("argon2")) {
		fatalf("register response leaks password hash material")
	}

	var resp struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("register: decode response: %v", err)
	}
	if resp.ID <= 0 {
		fatalf("register: invalid id %d", resp.ID)
	}
	if resp.Login != login {
		fatalf("register: login mismatch: got=%q want=%q", resp.Login, login)
	}
	return resp.ID
}

func mustRejectWithoutCookie(parent context.Context, baseURL string, stepTimeout time.Duration) {
	bare := &http.Client{}
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/folders", nil)
	if err != nil {
		fatalf("build request: %v", err)
	}
	resp, err := bare.Do(req)
	if err != nil {
		fatalf("request /folders without cookie: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusUnauthorized {
		fatalf("cookie-less /folders: status=%d want 401", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("WWW-Authenticate"), "Bearer") {
		fatalf("cookie-less 401 missing WWW-Authenticate: Bearer")
	}
}

func mustLogin(parent context.Context, client *http.Client, baseURL, login, password string, stepTimeout time.Duration) {
	status, body := doJSON(parent, client, http.MethodPost, baseURL+"/login",
		map[string]any{"username": login, "hashed_password": password}, stepTimeout)
	if status != http.StatusOK {
		fatalf("login: status=%d body=%s", status, body)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("login: decode response: %v", err)
	}
	if strings.Count(resp.AccessToken, ".") != 2 {
		fatalf("login: access_token is not a three-segment token")
	}
	if resp.TokenType != "bearer" {
		fatalf("login: token_type=%q want bearer", resp.TokenType)
	}
}

func hasAccessCookie(jar http.CookieJar, baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == "access_token" && c.Value != "" {
			return true
		}
	}
	return false
}

func mustCreateFolder(parent context.Context, client *http.Client, baseURL string, userID int64, stepTimeout time.Duration) int64 {
	status, body := doJSON(parent, client, http.MethodPost, baseURL+"/add_one_folder",
		map[string]any{"text_folder": "smoke folder", "number_of_topics": 0}, stepTimeout)
	if status != http.StatusOK {
		fatalf("create folder: status=%d body=%s", status, body)
	}

	var resp struct {
		ID     int64 `json:"id"`
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("create folder: decode response: %v", err)
	}
	if resp.ID <= 0 {
		fatalf("create folder: invalid id %d", resp.ID)
	}
	if resp.UserID != userID {
		fatalf("create folder: user_id mismatch: got=%d want=%d", resp.UserID, userID)
	}
	return resp.ID
}

func mustCreateTheme(parent context.Context, client *http.Client, baseURL string, folderID int64, stepTimeout time.Duration) int64 {
	status, body := doJSON(parent, client, http.MethodPost,
		fmt.Sprintf("%s/folders/%d/add_theme", baseURL, folderID),
		map[string]any{"name_theme": "smoke theme", "number_of_records": 0}, stepTimeout)
	if status != http.StatusOK {
		fatalf("create theme: status=%d body=%s", status, body)
	}

	var resp struct {
		ID       int64 `json:"id"`
		FolderID int64 `json:"folder_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("create theme: decode response: %v", err)
	}
	if resp.ID <= 0 || resp.FolderID != folderID {
		fatalf("create theme: unexpected ids: %+v", resp)
	}
	return resp.ID
}

func mustCreateRecord(parent context.Context, client *http.Client, baseURL string, themeID int64, stepTimeout time.Duration) int64 {
	status, body := doJSON(parent, client, http.MethodPost,
		fmt.Sprintf("%s/themes/%d/add_record", baseURL, themeID),
		map[string]any{"name_record": "smoke record", "text_records": "smoke text", "count_text": 10}, stepTimeout)
	if status != http.StatusOK {
		fatalf("create record: status=%d body=%s", status, body)
	}

	var resp struct {
		ID      int64 `json:"id"`
		ThemeID int64 `json:"theme_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("create record: decode response: %v", err)
	}
	if resp.ID <= 0 || resp.ThemeID != themeID {
		fatalf("create record: unexpected ids: %+v", resp)
	}
	return resp.ID
}

func mustEnqueueKnowledge(parent context.Context, client *http.Client, baseURL string, userID int64, stepTimeout time.Duration) int64 {
	status, body := doJSON(parent, client, http.MethodPost, baseURL+"/knowledge_queue",
		map[string]any{"content_knowledge_queue": "smoke knowledge", "completed_task_status": false, "number_of_cycles": 0}, stepTimeout)
	if status != http.StatusOK {
		fatalf("enqueue knowledge: status=%d body=%s", status, body)
	}

	var resp struct {
		ID            int64           `json:"id"`
		UserID        int64           `json:"user_id"`
		NextAlertCard json.RawMessage `json:"next_alert_card"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("enqueue knowledge: decode response: %v", err)
	}
	if resp.ID <= 0 || resp.UserID != userID {
		fatalf("enqueue knowledge: unexpected ids: %+v", resp)
	}
	if len(resp.NextAlertCard) != 0 && string(resp.NextAlertCard) != "null" {
		fatalf("enqueue knowledge: next_alert_card=%s want null", resp.NextAlertCard)
	}
	return resp.ID
}

func mustQueueListNullAlert(parent context.Context, client *http.Client, baseURL string, queueID int64, stepTimeout time.Duration) {
	status, body := doJSON(parent, client, http.MethodGet, baseURL+"/knowledge_queue", nil, stepTimeout)
	if status != http.StatusOK {
		fatalf("list knowledge queue: status=%d body=%s", status, body)
	}

	var rows []struct {
		ID            int64           `json:"id"`
		NextAlertCard json.RawMessage `json:"next_alert_card"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		fatalf("list knowledge queue: decode response: %v", err)
	}

	found := false
	for _, row := range rows {
		if row.ID != queueID {
			continue
		}
		found = true
		if len(row.NextAlertCard) != 0 && string(row.NextAlertCard) != "null" {
			fatalf("list knowledge queue: next_alert_card=%s want null", row.NextAlertCard)
		}
	}
	if !found {
		fatalf("list knowledge queue: missing id=%d", queueID)
	}
}

func mustListContainsID(parent context.Context, client *http.Client, listURL string, wantID int64, stepTimeout time.Duration) {
	status, body := doJSON(parent, client, http.MethodGet, listURL, nil, stepTimeout)
	if status != http.StatusOK {
		fatalf("list %s: status=%d body=%s", listURL, status, body)
	}

	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		fatalf("list %s: decode response: %v", listURL, err)
	}
	for _, row := range rows {
		if row.ID == wantID {
			return
		}
	}
	fatalf("list %s: missing id=%d", listURL, wantID)
}

func doJSON(parent context.Context, client *http.Client, method, rawURL string, payload any, stepTimeout time.Duration) (int, []byte) {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			fatalf("marshal payload: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fatalf("%s %s: %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		fatalf("%s %s: read body: %v", method, rawURL, err)
	}
	return resp.StatusCode, body
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
