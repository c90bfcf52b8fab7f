package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"churchdirectory/internal/api"
	"churchdirectory/internal/cache"
	"churchdirectory/internal/config"
	"churchdirectory/internal/model"
	"churchdirectory/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "3001",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			Environment:  "test",
		},
		Store: config.StoreConfig{Backend: "memory"},
		Auth: config.AuthConfig{
			AdminUsername:     "admin",
			AdminPassword:     "church2026",
			SessionExpiration: time.Hour,
		},
	}
}

type testApp struct {
	app   *fiber.App
	store *store.MemoryStore
	cache *cache.Directory
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := testConfig()
	st := store.NewMemoryStore()
	directory := cache.New(st)
	require.NoError(t, directory.Load(context.Background()))

	sessions := session.New(session.Config{
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		Expiration:     cfg.Auth.SessionExpiration,
	})

	return &testApp{
		app:   api.NewApp(cfg, directory, st, sessions, nil),
		store: st,
		cache: directory,
	}
}

func (ta *testApp) request(t *testing.T, method, path, cookie string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ta *testApp) login(t *testing.T) string {
	t.Helper()

	resp := ta.request(t, http.MethodPost, "/login", "", fiber.Map{
		"username": "admin",
		"password": "church2026",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie returned")
	return ""
}

func memberBody(first, last, memberType string) fiber.Map {
	return fiber.Map{
		"personalDetails": fiber.Map{
			"firstName":     first,
			"lastName":      last,
			"phone":         "0801 234 5678",
			"houseNumber":   "12",
			"streetName":    "Broad Street",
			"city":          "Lagos",
			"state":         "Lagos",
			"maritalStatus": "Single",
			"dateOfBirth":   "1990-04-12",
		},
		"churchDetails": fiber.Map{
			"memberType": memberType,
		},
	}
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	ta := setupTestApp(t)

	resp := ta.request(t, http.MethodPost, "/login", "", fiber.Map{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_RequiresSession(t *testing.T) {
	ta := setupTestApp(t)

	resp := ta.request(t, http.MethodGet, "/api/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMemberLifecycle(t *testing.T) {
	ta := setupTestApp(t)
	cookie := ta.login(t)

	resp := ta.request(t, http.MethodPost, "/api/members", cookie, memberBody("Jane", "Doe", "Worker"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created model.Member
	decode(t, resp, &created)
	assert.Equal(t, "JCC-WRK-001", created.ID)
	assert.Equal(t, "Active", created.ChurchDetails.Status)

	resp = ta.request(t, http.MethodGet, "/api/members/"+created.ID, cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update := memberBody("Jane", "Doe", "Worker")
	update["personalDetails"].(fiber.Map)["city"] = "Abuja"
	resp = ta.request(t, http.MethodPut, "/api/members/"+created.ID, cookie, update)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Member
	decode(t, resp, &updated)
	assert.Equal(t, "Abuja", updated.PersonalDetails.City)
	assert.Equal(t, created.ID, updated.ID)

	resp = ta.request(t, http.MethodDelete, "/api/members/"+created.ID, cookie, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/api/members", cookie, nil)
	var list struct {
		Members []model.Member `json:"members"`
		Count   int            `json:"count"`
	}
	decode(t, resp, &list)
	assert.Zero(t, list.Count)
}

func TestMemberValidation(t *testing.T) {
	ta := setupTestApp(t)
	cookie := ta.login(t)

	body := memberBody("Jane", "Doe", "Worker")
	body["personalDetails"].(fiber.Map)["phone"] = "not-a-phone!"
	resp := ta.request(t, http.MethodPost, "/api/members", cookie, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = memberBody("Jane", "Doe", "Deacon")
	resp = ta.request(t, http.MethodPost, "/api/members", cookie, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMembers_SearchAndTypeFilter(t *testing.T) {
	ta := setupTestApp(t)
	cookie := ta.login(t)

	ta.request(t, http.MethodPost, "/api/members", cookie, memberBody("Jane", "Doe", "Worker"))
	ta.request(t, http.MethodPost, "/api/members", cookie, memberBody("Sam", "Lee", "Volunteer"))

	resp := ta.request(t, http.MethodGet, "/api/members?search=jane", cookie, nil)
	var list struct {
		Members []model.Member `json:"members"`
		Count   int            `json:"count"`
	}
	decode(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Jane", list.Members[0].PersonalDetails.FirstName)

	resp = ta.request(t, http.MethodGet, "/api/members?type=Volunteer", cookie, nil)
	decode(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Sam", list.Members[0].PersonalDetails.FirstName)
}

func TestDepartmentEndpoints(t *testing.T) {
	ta := setupTestApp(t)
	cookie := ta.login(t)

	resp := ta.request(t, http.MethodPost, "/api/departments", cookie, fiber.Map{"name": "Choir"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dept model.Department
	decode(t, resp, &dept)
	assert.Equal(t, "JCC-DEPT-001", dept.ID)

	resp = ta.request(t, http.MethodPost, "/api/departments", cookie, fiber.Map{"name": "  choir "})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/departments", cookie, fiber.Map{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ta.request(t, http.MethodDelete, "/api/departments/"+dept.ID, cookie, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestExportMembers(t *testing.T) {
	ta := setupTestApp(t)
	cookie := ta.login(t)

	ta.request(t, http.MethodPost, "/api/members", cookie, memberBody("Jane", "Doe", "Worker"))

	resp := ta.request(t, http.MethodGet, "/api/members/export", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "church_members_")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Member ID","First Name"`))
	assert.Contains(t, lines[1], `"JCC-WRK-001"`)
}
