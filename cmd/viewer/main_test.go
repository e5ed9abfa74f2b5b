package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/mongo-viewer/internal/viewer"
)

func fakeGateway(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/connect", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"Connected successfully"}`))
	})
	mux.HandleFunc("/api/databases", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"databases":[{"name":"shop","sizeOnDisk":2048,"empty":false}]}`))
	})
	mux.HandleFunc("/api/collections/shop", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"collections":[{"name":"items","type":"collection"}]}`))
	})
	mux.HandleFunc("/api/documents/shop/items", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"documents":[{"sku":"pen"}],"totalCount":4,"returnedCount":1}`))
	})
	mux.HandleFunc("/api/stats/shop/items", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"documentCount":4,"averageDocumentSize":30,"collectionSize":120,"storageSize":4096,"indexCount":1}`))
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","connected":true,"timestamp":"2026-01-01T00:00:00.000Z"}`))
	})
	mux.HandleFunc("/api/collections/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom","code":"INTERNAL_ERROR"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL + "/api"
}

func runScript(t *testing.T, script string) string {
	t.Helper()

	client := viewer.NewClient(&viewer.ClientConfig{BaseURL: fakeGateway(t)})
	var out bytes.Buffer
	r := &repl{
		client:  client,
		browser: viewer.NewBrowser(client, viewer.Options{}),
		out:     &out,
		timeout: 5 * time.Second,
	}
	require.NoError(t, r.run(strings.NewReader(script)))
	return out.String()
}

func TestREPL_BrowseSession(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"connect mongodb://localhost",
		"use shop",
		"open items",
		"stats",
		"status",
		"health",
		"disconnect",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "Databases (1)")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "Collections in shop (1)")
	assert.Contains(t, out, "Documents in shop.items (1 of 4)")
	assert.Contains(t, out, `"sku": "pen"`)
	assert.Contains(t, out, `"documentCount": 4`)
	assert.Contains(t, out, "state: browsing collection")
	assert.Contains(t, out, "shop.items> ")
	assert.Contains(t, out, "gateway OK, connected: true")
	assert.Contains(t, out, "disconnected")
}

func TestREPL_Errors(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"connect",
		"use shop",
		"connect mongodb://localhost",
		"use missing",
		"stats",
		"use",
		"bogus",
	}, "\n"))

	assert.Contains(t, out, "error: Please provide a MongoDB connection string")
	assert.Contains(t, out, "error: Not connected to MongoDB")
	assert.Contains(t, out, "error: Failed to fetch collections: boom")
	assert.Contains(t, out, "error: No collection selected")
	assert.Contains(t, out, "usage: use <name>")
	assert.Contains(t, out, `unknown command "bogus"`)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "8.0 KB", formatBytes(8192))
	assert.Equal(t, "1.5 MB", formatBytes(1536*1024))
}
