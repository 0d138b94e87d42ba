package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/meshopt-cloud.net/internal/adapter/logging"
)

type staticTokens struct{}

func (staticTokens) AccessToken(ctx context.Context) (string, error) {
	return "test-token", nil
}

func TestEnsureBucketTreatsConflictAsSuccess(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/buckets", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, logging.NewZapLogger())
	require.NoError(t, client.EnsureBucket(context.Background(), "nick_designautomation"))
	require.Equal(t, "Bearer test-token", gotAuth)
}

func TestEnsureBucketPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, logging.NewZapLogger())
	err := client.EnsureBucket(context.Background(), "nick_designautomation")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestUploadObjectPutsBytes(t *testing.T) {
	var gotBody string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, logging.NewZapLogger())
	err := client.UploadObject(context.Background(), "bucket", "20240517_input_model.max", strings.NewReader("model bytes"), 11)
	require.NoError(t, err)
	require.Equal(t, "/buckets/bucket/objects/20240517_input_model.max", gotPath)
	require.Equal(t, "model bytes", gotBody)
}

func TestSignedDownloadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/buckets/bucket/objects/output.zip/signed", r.URL.Path)
		require.Equal(t, "read", r.URL.Query().Get("access"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"signedUrl":"https://signed.example.com/output.zip"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, logging.NewZapLogger())
	signed, err := client.SignedDownloadURL(context.Background(), "bucket", "output.zip")
	require.NoError(t, err)
	require.Equal(t, "https://signed.example.com/output.zip", signed)
}

func TestSignedDownloadURLRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{}, logging.NewZapLogger())
	_, err := client.SignedDownloadURL(context.Background(), "bucket", "output.zip")
	require.Error(t, err)
}
