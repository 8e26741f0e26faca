package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

// HTTPStore is a JSON REST RemoteStore: POST /<collection>,
// PATCH /<collection>/<id> and DELETE /<collection>/<id>.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

var _ interfaces.RemoteStore = (*HTTPStore)(nil)

func NewHTTPStore(baseURL string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// NewHTTPStoreWithTimeout builds an HTTPStore with its own client.
func NewHTTPStoreWithTimeout(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewHTTPStore(baseURL, &http.Client{Timeout: timeout})
}

// Create posts payload. The id is merged into object payloads so the remote
// keeps the local identifier.
func (s *HTTPStore) Create(ctx context.Context, collection, id string, payload any) error {
	body, err := withID(payload, id)
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodPost, s.path(collection, ""), body)
}

func (s *HTTPStore) Patch(ctx context.Context, collection, id string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("replication: encode payload: %w", err)
	}
	return s.do(ctx, http.MethodPatch, s.path(collection, id), body)
}

func (s *HTTPStore) Delete(ctx context.Context, collection, id string) error {
	return s.do(ctx, http.MethodDelete, s.path(collection, id), nil)
}

func (s *HTTPStore) path(collection, id string) string {
	out := s.baseURL + "/" + url.PathEscape(collection)
	if id != "" {
		out += "/" + url.PathEscape(id)
	}
	return out
}

func (s *HTTPStore) do(ctx context.Context, method, target string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &domain.TransportFailure{Operation: "replication." + strings.ToLower(method), Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.TransportFailure{Operation: "replication." + strings.ToLower(method), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 300 {
		return &domain.TransportFailure{
			Operation: "replication." + strings.ToLower(method),
			Err:       fmt.Errorf("%s %s: unexpected status %d", method, target, resp.StatusCode),
		}
	}
	return nil
}

func withID(payload any, id string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replication: encode payload: %w", err)
	}
	var object map[string]any
	if err := json.Unmarshal(encoded, &object); err != nil || object == nil {
		return encoded, nil
	}
	if _, ok := object["id"]; !ok && id != "" {
		object["id"] = id
		return json.Marshal(object)
	}
	return encoded, nil
}
