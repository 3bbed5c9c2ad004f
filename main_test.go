package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
	Status  *int            `json:"status"`
}

// setupStore writes a config pointing at host and saves a session for the
// default profile.
func setupStore(t *testing.T, host string) string {
	t.Helper()
	dir := t.TempDir()
	config := "host: " + host + "\nalbum_version: 5\ntimeout: 5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0600))

	st, err := store.NewSessionStore(filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	require.NoError(t, st.SaveSession("default", session.Session{AccessToken: "tok", Mid: "u1", AlbumToken: "al"}))
	require.NoError(t, st.Close())
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out, io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func parseEnvelope(t *testing.T, s string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(s), &env), "output should be a JSON envelope: %s", s)
	return env
}

func TestAlbumGetEndToEnd(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"result":{"id":5,"title":"Trip"}}`))
	}))
	defer srv.Close()

	dir := setupStore(t, srv.URL)
	out, err := execute(t, "--store", dir, "album", "get", "--chat", "c1", "--album", "5", "--sync-revision", "3")
	require.NoError(t, err)

	env := parseEnvelope(t, out)
	require.True(t, env.Success)
	assert.JSONEq(t, `{"code":0,"result":{"id":5,"title":"Trip"}}`, string(env.Data))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/ext/album/api/v5/albums/5", got.URL.Path)
	assert.Equal(t, "3", got.URL.Query().Get("syncRevision"))
	assert.Equal(t, "c1", got.Header.Get("x-line-chat-id"))
	assert.Equal(t, "al", got.Header.Get("X-Line-ChannelToken"))
	assert.Equal(t, "tok", got.Header.Get("x-line-access"))
	assert.Empty(t, got.Header.Get("x-line-album-referrer"))
}

func TestAlbumDeletePhotosSendsIDs(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ext/album/api/v5/albums/7/photos/delete", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	dir := setupStore(t, srv.URL)
	out, err := execute(t, "--store", dir, "album", "delete-photos", "--chat", "c1", "--album", "7", "--photo", "1", "--photo", "2")
	require.NoError(t, err)
	require.True(t, parseEnvelope(t, out).Success)
	assert.Equal(t, []any{float64(1), float64(2)}, body["photoIds"])
}

func TestAlbumHTTPErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"forbidden"}`))
	}))
	defer srv.Close()

	dir := setupStore(t, srv.URL)
	out, err := execute(t, "--store", dir, "album", "terms-status")
	require.NoError(t, err)

	env := parseEnvelope(t, out)
	require.False(t, env.Success)
	require.NotNil(t, env.Status)
	assert.Equal(t, http.StatusForbidden, *env.Status)
}

func TestAlbumFlagValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing required chat",
			args:    []string{"album", "get", "--album", "5"},
			wantErr: "chat",
		},
		{
			name:    "invalid order",
			args:    []string{"album", "moa-albums", "--order", "newest"},
			wantErr: "invalid order",
		},
		{
			name:    "invalid referrer",
			args:    []string{"album", "get", "--chat", "c1", "--album", "5", "--referrer", "HOME"},
			wantErr: "invalid referrer",
		},
		{
			name:    "invalid like type",
			args:    []string{"album", "like", "--chat", "c1", "--album", "5", "--photo", "9", "--type", "2000"},
			wantErr: "invalid like type",
		},
		{
			name:    "invalid view type",
			args:    []string{"album", "preview", "--chat", "c1", "--view", "grid"},
			wantErr: "invalid view type",
		},
		{
			name:    "photos file missing",
			args:    []string{"album", "add-photos", "--chat", "c1", "--album", "5", "--photos", filepath.Join(dir, "nope.json")},
			wantErr: "read photos",
		},
		{
			name:    "positional args rejected",
			args:    []string{"album", "terms-status", "extra"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--store", dir}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAlbumWithoutSession(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--store", dir, "album", "hidden-chats")
	require.NoError(t, err)

	env := parseEnvelope(t, out)
	require.False(t, env.Success)
	assert.Contains(t, *env.Error, "session set --profile default")
}

func TestSessionLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "--store", dir, "--profile", "work", "session", "set", "--access-token", "secret-token", "--mid", "u9")
	require.NoError(t, err)
	require.True(t, parseEnvelope(t, out).Success)

	out, err = execute(t, "--store", dir, "--profile", "work", "session", "show")
	require.NoError(t, err)
	env := parseEnvelope(t, out)
	require.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"mid":"u9"`)
	assert.NotContains(t, string(env.Data), "secret-token")

	out, err = execute(t, "--store", dir, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, string(parseEnvelope(t, out).Data), `"work"`)

	out, err = execute(t, "--store", dir, "--profile", "work", "session", "delete")
	require.NoError(t, err)
	require.True(t, parseEnvelope(t, out).Success)

	out, err = execute(t, "--store", dir, "--profile", "work", "session", "show")
	require.NoError(t, err)
	assert.False(t, parseEnvelope(t, out).Success)
}

func TestShopEstablishRequiresKey(t *testing.T) {
	_, err := execute(t, "--store", t.TempDir(), "shop", "establish-e2ee")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public-key")
}

func TestMissingExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--store", dir, "--config", filepath.Join(dir, "absent.yaml"), "session", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	env := parseEnvelope(t, out)
	require.True(t, env.Success)
	assert.Contains(t, string(env.Data), "version")
}
