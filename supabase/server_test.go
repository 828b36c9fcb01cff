package supabase

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"clementus360/study-assistant/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/supabase-go"
)

const (
	testUserID    = "5f3c2a9e-8d71-4c8b-9a0e-6b1d2f4e7c11"
	testJWTSecret = "test-secret"
)

func generateTestJWT(t *testing.T, userID string, exp time.Time) string {
	claims := jwt.MapClaims{
		"sub":  userID,
		"aud":  "authenticated",
		"role": "authenticated",
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// fakeProject stands in for the auth, rest and storage endpoints of a
// Supabase project.
type fakeProject struct {
	t *testing.T

	mu         sync.Mutex
	requests   []recordedRequest
	objects    map[string]string
	activities []map[string]interface{}

	confirmEmail bool
	expiry       time.Duration
}

func newFakeProject(t *testing.T) (*fakeProject, *supabase.Client) {
	p := &fakeProject{t: t, objects: map[string]string{}, expiry: time.Hour}
	server := httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(server.Close)

	client, err := NewClient(config.Settings{SupabaseURL: server.URL, SupabaseKey: "anon-key"})
	require.NoError(t, err)
	return p, client
}

func (p *fakeProject) recorded(path string) []recordedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedRequest
	for _, r := range p.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (p *fakeProject) session(refreshToken string) map[string]interface{} {
	return map[string]interface{}{
		"access_token":  generateTestJWT(p.t, testUserID, time.Now().Add(p.expiry)),
		"refresh_token": refreshToken,
		"token_type":    "bearer",
		"expires_in":    int(p.expiry.Seconds()),
		"user": map[string]interface{}{
			"id":    testUserID,
			"email": "ada@example.com",
			"user_metadata": map[string]interface{}{
				"first_name": "Ada",
				"last_name":  "Lovelace",
			},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (p *fakeProject) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	p.mu.Lock()
	p.requests = append(p.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	p.mu.Unlock()

	var fields map[string]interface{}
	_ = json.Unmarshal(body, &fields)

	switch {
	case r.URL.Path == "/auth/v1/token" && r.URL.Query().Get("grant_type") == "password":
		if fields["password"] != "correct horse" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, p.session("rt-1"))

	case r.URL.Path == "/auth/v1/token" && r.URL.Query().Get("grant_type") == "refresh_token":
		if fields["refresh_token"] != "rt-1" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "Invalid Refresh Token"})
			return
		}
		writeJSON(w, http.StatusOK, p.session("rt-2"))

	case r.URL.Path == "/auth/v1/signup":
		if p.confirmEmail {
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": testUserID, "email": fields["email"]})
			return
		}
		writeJSON(w, http.StatusOK, p.session("rt-1"))

	case r.URL.Path == "/auth/v1/logout":
		w.WriteHeader(http.StatusNoContent)

	case r.URL.Path == "/rest/v1/user_activities" && r.Method == http.MethodGet:
		p.mu.Lock()
		rows := make([]map[string]interface{}, 0, len(p.activities))
		for i := len(p.activities) - 1; i >= 0; i-- {
			rows = append(rows, p.activities[i])
		}
		p.mu.Unlock()
		writeJSON(w, http.StatusOK, rows)

	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		if r.URL.Path == "/rest/v1/user_activities" {
			p.mu.Lock()
			p.activities = append(p.activities, fields)
			p.mu.Unlock()
		}
		writeJSON(w, http.StatusCreated, []interface{}{fields})

	case strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
		key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/")
		p.mu.Lock()
		_, exists := p.objects[key]
		if !exists {
			p.objects[key] = string(body)
		}
		p.mu.Unlock()
		if exists {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"statusCode": "409",
				"error":      "Duplicate",
				"message":    "The resource already exists",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"Key": key})

	default:
		http.NotFound(w, r)
	}
}
