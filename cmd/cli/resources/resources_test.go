package resources

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

// setup points the CLI at srv with a saved token and returns a fresh root.
func setup(t *testing.T, srv *httptest.Server) *bytes.Buffer {
	t.Helper()
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok-123\n"), 0o600))
	t.Setenv("CATALOG_API_URL", srv.URL+"/")
	t.Setenv("CATALOG_TOKEN_FILE", tokenFile)
	return &bytes.Buffer{}
}

func run(t *testing.T, out *bytes.Buffer, args ...string) error {
	t.Helper()
	cmd := root.New()
	InitResources(cmd)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestList_SendsQueryAndRendersTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "vinod", r.URL.Query().Get("author"))
		assert.Equal(t, "let", r.URL.Query().Get("search"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"b1","isbn":"978-1","title":"Let us C#","author":"Vinod","price":12.5,"year":2020,"available":true}]`))
	}))
	defer srv.Close()

	out := setup(t, srv)
	err := run(t, out, "books", "list", "--search", "let", "--filter", "author=vinod", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Let us C#")
	assert.Contains(t, out.String(), "978-1")
}

func TestList_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	out := setup(t, srv)
	require.NoError(t, run(t, out, "products", "list", "--json"))
	assert.Equal(t, "[]\n", out.String())
}

func TestList_BadFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	out := setup(t, srv)
	err := run(t, out, "products", "list", "--filter", "name")
	assert.ErrorContains(t, err, "want field=value")
}

func TestCreate_SetAssignments(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p1","name":"Widget"}`))
	}))
	defer srv.Close()

	out := setup(t, srv)
	err := run(t, out, "products", "create", "--data", `{"units":"box"}`, "--set", "name=Widget", "--set", "price:=9.99")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Widget", "price": 9.99, "units": "box"}, got)
	assert.Contains(t, out.String(), `"id": "p1"`)
}

func TestCreate_ServerValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"validation failed","fields":{"email":"invalid"}}`))
	}))
	defer srv.Close()

	out := setup(t, srv)
	err := run(t, out, "employees", "create", "--set", "name=X", "--set", "email=nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400: validation failed")
	assert.Contains(t, err.Error(), "email: invalid")
}

func TestCreate_NothingToSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	out := setup(t, srv)
	assert.Error(t, run(t, out, "questions", "create"))
}

func TestUpdate_PatchAndReplace(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/questions/q1", r.URL.Path)
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out := setup(t, srv)
	require.NoError(t, run(t, out, "questions", "update", "q1", "--set", "answer=42"))
	require.NoError(t, run(t, out, "questions", "update", "q1", "--replace", "--set", "text=why", "--set", "answer=42"))

	assert.Equal(t, []string{"PATCH", "PUT"}, methods)
	assert.Contains(t, out.String(), "Updated question q1")
}

func TestGetAndDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			w.Write([]byte(`{"id":"e1","name":"John Doe"}`))
		case "DELETE":
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	out := setup(t, srv)
	require.NoError(t, run(t, out, "employees", "get", "e1"))
	assert.Contains(t, out.String(), "John Doe")

	require.NoError(t, run(t, out, "employees", "delete", "e1"))
	assert.Contains(t, out.String(), "Deleted employee e1")
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	out := setup(t, srv)
	err := run(t, out, "books", "delete", "missing")
	assert.ErrorContains(t, err, "status 404: not found")
}

func TestRequiresLogin(t *testing.T) {
	t.Setenv("CATALOG_TOKEN_FILE", filepath.Join(t.TempDir(), "absent"))
	err := run(t, &bytes.Buffer{}, "books", "list")
	assert.ErrorContains(t, err, "not logged in")
}
