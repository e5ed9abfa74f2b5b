package viewer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/mongo-viewer/internal/viewer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *viewer.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return viewer.NewClient(&viewer.ClientConfig{BaseURL: server.URL + "/api/"})
}

func TestClient_Connect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/connect", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"connectionString":"mongodb://localhost"}`, string(body))

		_, _ = w.Write([]byte(`{"success":true,"message":"Connected successfully"}`))
	})

	require.NoError(t, client.Connect(context.Background(), "mongodb://localhost"))
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Not connected to MongoDB","code":"NOT_CONNECTED"}`))
	})

	_, err := client.Databases(context.Background())

	require.Error(t, err)
	var apiErr *viewer.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "NOT_CONNECTED", apiErr.Code)
	assert.Equal(t, "Not connected to MongoDB", err.Error())
}

func TestClient_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.Health(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Request failed with status code 502", err.Error())
}

func TestClient_DocumentsEscapesPathAndSendsLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/my db/a/b", r.URL.Path)
		assert.Equal(t, "/api/documents/my%20db/a%2Fb", r.URL.EscapedPath())
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"documents":     []interface{}{map[string]interface{}{"_id": "1"}},
			"totalCount":    7,
			"returnedCount": 1,
		})
	})

	page, err := client.Documents(context.Background(), "my db", "a/b", 50)

	require.NoError(t, err)
	assert.Equal(t, int64(7), page.TotalCount)
	assert.Equal(t, 1, page.ReturnedCount)
	require.Len(t, page.Documents, 1)
	assert.JSONEq(t, `{"_id":"1"}`, string(page.Documents[0]))
}

func TestClient_Stats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/shop/items", r.URL.Path)
		_, _ = w.Write([]byte(`{"documentCount":10,"averageDocumentSize":48.5,"collectionSize":485,"storageSize":4096,"indexCount":1}`))
	})

	stats, err := client.Stats(context.Background(), "shop", "items")

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.DocumentCount)
	assert.Equal(t, 48.5, stats.AverageDocumentSize)
	assert.Equal(t, int64(1), stats.IndexCount)
}

func TestClient_ConnectWithoutSuccessFlag(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	err := client.Connect(context.Background(), "mongodb://localhost")

	require.Error(t, err)
	assert.Equal(t, "Connection failed", err.Error())
}

func TestClient_DefaultBaseURL(t *testing.T) {
	var gotURL string
	httpClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return nil, assert.AnError
	})}

	client := viewer.NewClient(&viewer.ClientConfig{HTTPClient: httpClient})
	_, err := client.Health(context.Background())

	require.Error(t, err)
	assert.Equal(t, viewer.DefaultBaseURL+"/health", gotURL)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
