package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/crucial707/catalog/cmd/cli/root"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot(out *bytes.Buffer, args ...string) interface{ Execute() error } {
	cmd := root.New()
	InitAuth(cmd)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd
}

func TestLogin_SavesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "s3cret", body["password"])
		w.Write([]byte(`{"token":"tok-abc","expires_at":"2030-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("CATALOG_API_URL", srv.URL)
	t.Setenv("CATALOG_TOKEN_FILE", tokenFile)

	var out bytes.Buffer
	require.NoError(t, newRoot(&out, "login", "--username", "alice", "--password", "s3cret").Execute())
	assert.Contains(t, out.String(), "Login successful")

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", string(data))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("CATALOG_API_URL", srv.URL)
	t.Setenv("CATALOG_TOKEN_FILE", tokenFile)

	err := newRoot(&bytes.Buffer{}, "login", "--username", "alice", "--password", "wrong").Execute()
	assert.ErrorContains(t, err, "invalid credentials")
	assert.NoFileExists(t, tokenFile)
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		w.Write([]byte(`{"message":"user registered"}`))
	}))
	defer srv.Close()
	t.Setenv("CATALOG_API_URL", srv.URL)

	var out bytes.Buffer
	require.NoError(t, newRoot(&out, "register", "--username", "bob", "--password", "pw").Execute())
	assert.Contains(t, out.String(), "Registered bob")
}

func TestLogout(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("CATALOG_TOKEN_FILE", tokenFile)
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok"), 0o600))

	var out bytes.Buffer
	require.NoError(t, newRoot(&out, "logout").Execute())
	assert.Contains(t, out.String(), "Logged out successfully.")
	assert.NoFileExists(t, tokenFile)

	out.Reset()
	require.NoError(t, newRoot(&out, "logout").Execute())
	assert.Contains(t, out.String(), "No user logged in.")
}
