package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func tarGzWithEntry(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	content := []byte("hello\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "pkg/README", Mode: 0644, Size: int64(len(content))}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func emptyTarGz(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func tarXz(t *testing.T, withEntry bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	tw := tar.NewWriter(xw)
	if withEntry {
		content := []byte("hello\n")
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: "pkg/README", Mode: 0644, Size: int64(len(content))}))
		_, err = tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, xw.Close())
	return buf.Bytes()
}

func serve(t *testing.T, path string, body []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchHashValidArchive(t *testing.T) {
	body := tarGzWithEntry(t)
	srv := serve(t, "/pkg-1.0.tar.gz", body, http.StatusOK)

	digest, err := NewClient().FetchHash(context.Background(), srv.URL+"/pkg-1.0.tar.gz")
	require.NoError(t, err)

	want := sha256.Sum256(body)
	assert.Equal(t, hex.EncodeToString(want[:]), digest)
}

func TestFetchHashRejectsEmptyArchive(t *testing.T) {
	srv := serve(t, "/pkg-1.0.tar.gz", emptyTarGz(t), http.StatusOK)

	_, err := NewClient().FetchHash(context.Background(), srv.URL+"/pkg-1.0.tar.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid archive")
}

func TestFetchHashValidXzArchive(t *testing.T) {
	body := tarXz(t, true)
	srv := serve(t, "/pkg-1.0.tar.xz", body, http.StatusOK)

	digest, err := NewClient().FetchHash(context.Background(), srv.URL+"/pkg-1.0.tar.xz")
	require.NoError(t, err)

	want := sha256.Sum256(body)
	assert.Equal(t, hex.EncodeToString(want[:]), digest)
}

func TestFetchHashRejectsEmptyXzArchive(t *testing.T) {
	srv := serve(t, "/pkg-1.0.tar.xz", tarXz(t, false), http.StatusOK)

	_, err := NewClient().FetchHash(context.Background(), srv.URL+"/pkg-1.0.tar.xz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid archive")
}

func TestFetchHashRejectsGarbageXzArchive(t *testing.T) {
	srv := serve(t, "/pkg-1.0.tar.xz", []byte("this is not xz"), http.StatusOK)

	_, err := NewClient().FetchHash(context.Background(), srv.URL+"/pkg-1.0.tar.xz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid archive")
}

func TestFetchHashRejectsGarbageArchive(t *testing.T) {
	srv := serve(t, "/pkg-1.0.tar.gz", []byte("this is not gzip"), http.StatusOK)

	_, err := NewClient().FetchHash(context.Background(), srv.URL+"/pkg-1.0.tar.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid archive")
}

func TestFetchHashPlainFileSkipsValidation(t *testing.T) {
	body := []byte("#!/bin/sh\necho hi\n")
	srv := serve(t, "/tool-1.0.sh", body, http.StatusOK)

	digest, err := NewClient().FetchHash(context.Background(), srv.URL+"/tool-1.0.sh")
	require.NoError(t, err)

	want := sha256.Sum256(body)
	assert.Equal(t, hex.EncodeToString(want[:]), digest)
}

func TestFetchHashServerError(t *testing.T) {
	srv := serve(t, "/gone.tar.gz", nil, http.StatusNotFound)

	_, err := NewClient().FetchHash(context.Background(), srv.URL+"/gone.tar.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
