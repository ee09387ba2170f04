// Package archive stores finished comparison reports in a key/value HTTP
// store and indexes them by the content hash of their inputs.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bomdiff/internal/bom"
)

const (
	reportPrefix = "reports"
	hashPrefix   = "reports/by_hash"
)

// Client communicates with the archive HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RetryableError indicates a transient archive failure: a 5xx response or
// a transport error.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	if e.StatusCode == 0 {
		return "retryable archive error: " + e.Message
	}
	return fmt.Sprintf("retryable archive error (status %d): %s", e.StatusCode, e.Message)
}

// Record is an archived report with the job metadata that produced it.
type Record struct {
	ID        string      `json:"id"`
	Original  string      `json:"original"`
	Updated   string      `json:"updated"`
	Profile   string      `json:"profile"`
	Hash      string      `json:"hash"`
	CreatedAt time.Time   `json:"created_at"`
	Report    *bom.Report `json:"report,omitempty"`
}

// Entry is a listed report without its rows.
type Entry struct {
	ID        string      `json:"id"`
	Original  string      `json:"original"`
	Updated   string      `json:"updated"`
	Profile   string      `json:"profile"`
	Hash      string      `json:"hash"`
	CreatedAt time.Time   `json:"created_at"`
	Summary   bom.Summary `json:"summary"`
}

type nodeRequest struct {
	Value  any    `json:"value"`
	Source string `json:"source,omitempty"`
}

type nodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

// PutReport stores rec under reports/<id> and indexes it by hash.
func (c *Client) PutReport(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New("put report: id is required")
	}
	if err := c.putNode(ctx, reportKey(rec.ID), nodeRequest{Value: rec, Source: "bomdiff"}); err != nil {
		return err
	}
	if rec.Hash == "" {
		return nil
	}
	return c.putNode(ctx, hashKey(rec.Hash, rec.ID), nodeRequest{Value: rec.ID, Source: "bomdiff"})
}

// GetReport retrieves a report by id. It returns nil, nil when the report
// does not exist.
func (c *Client) GetReport(ctx context.Context, id string) (*Record, error) {
	node, err := c.getNode(ctx, reportKey(id))
	if err != nil || node == nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(node.Value, &rec); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &rec, nil
}

// FindByHash returns an archived report whose inputs hashed to hash, or
// nil, nil if none is indexed.
func (c *Client) FindByHash(ctx context.Context, hash string) (*Record, error) {
	nodes, err := c.listChildren(ctx, hashPrefix+"/"+hash, 1)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		var id string
		if err := json.Unmarshal(n.Value, &id); err != nil || id == "" {
			continue
		}
		rec, err := c.GetReport(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}

// ListReports lists archived reports, newest IDs last.
func (c *Client) ListReports(ctx context.Context, limit int) ([]Entry, error) {
	nodes, err := c.listChildren(ctx, reportPrefix, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(nodes))
	for _, n := range nodes {
		if strings.HasPrefix(n.Key, hashPrefix+"/") {
			continue
		}
		var rec Record
		if err := json.Unmarshal(n.Value, &rec); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", n.Key, err)
		}
		e := Entry{
			ID:        rec.ID,
			Original:  rec.Original,
			Updated:   rec.Updated,
			Profile:   rec.Profile,
			Hash:      rec.Hash,
			CreatedAt: rec.CreatedAt,
		}
		if rec.Report != nil {
			e.Summary = rec.Report.Summary
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DeleteReport removes a report and its hash index entry. It reports false
// when the report did not exist.
func (c *Client) DeleteReport(ctx context.Context, id string) (bool, error) {
	rec, err := c.GetReport(ctx, id)
	if err != nil || rec == nil {
		return false, err
	}
	if rec.Hash != "" {
		if err := c.deleteNode(ctx, hashKey(rec.Hash, id)); err != nil {
			return false, err
		}
	}
	if err := c.deleteNode(ctx, reportKey(id)); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func reportKey(id string) string { return reportPrefix + "/" + id }

func hashKey(hash, id string) string { return hashPrefix + "/" + hash + "/" + id }

func (c *Client) putNode(ctx context.Context, key string, req nodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("put %s: %w", key, statusError(resp))
	}
	return nil
}

func (c *Client) getNode(ctx context.Context, key string) (*nodeResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %w", key, statusError(resp))
	}

	var node nodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &node, nil
}

func (c *Client) deleteNode(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/kv/"+key, nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	return fmt.Errorf("delete %s: %w", key, statusError(resp))
}

// listChildren does a prefix scan under key.
func (c *Client) listChildren(ctx context.Context, key string, limit int) ([]nodeResponse, error) {
	path := "/kv/" + key + "/*"
	if limit > 0 {
		path += "?limit=" + url.QueryEscape(strconv.Itoa(limit))
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: %w", key, statusError(resp))
	}

	var result struct {
		Nodes []nodeResponse `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return result.Nodes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Message: err.Error()}
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.TrimSpace(string(body))
	if resp.StatusCode >= 500 {
		return &RetryableError{StatusCode: resp.StatusCode, Message: msg}
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
}
