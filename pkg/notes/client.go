// Package notes is the Go client for the Inkwell notes service. It wraps
// the HTTP API and maintains a local folder cache that applies note count
// changes optimistically, reconciling against the server on each reload.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotFound is returned when the requested folder or note does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the API key is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is a single rejected field from a 422 response.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestError is a non-validation API failure carrying the server's
// problem detail.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
}

// ValidationFailure aggregates the field errors from a rejected request.
type ValidationFailure struct {
	Detail string
	Errors []ValidationError
}

func (e *ValidationFailure) Error() string {
	if len(e.Errors) == 0 {
		return e.Detail
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return e.Detail + " (" + strings.Join(parts, "; ") + ")"
}

// problem mirrors the server's RFC 7807 error body.
type problem struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors []ValidationError `json:"errors"`
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the Inkwell HTTP API.
type Client struct {
	http  *resty.Client
	cache *FolderCache
}

// NewClient creates a client for the given server.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		cli.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		http:  cli,
		cache: NewFolderCache(),
	}
}

// Folders returns the client's folder cache.
func (c *Client) Folders() *FolderCache {
	return c.cache
}

func mapError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var p problem
	_ = json.Unmarshal(resp.Body(), &p)
	if p.Detail == "" {
		p.Detail = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, p.Detail)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, p.Detail)
	case http.StatusUnprocessableEntity:
		return &ValidationFailure{Detail: p.Detail, Errors: p.Errors}
	default:
		return &RequestError{Status: resp.StatusCode(), Detail: p.Detail}
	}
}

// Health fetches the server health status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/health")
	if err != nil {
		return nil, fmt.Errorf("health request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFolders fetches all folders and reconciles the local cache against
// the authoritative listing.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	var out []Folder
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/folders")
	if err != nil {
		return nil, fmt.Errorf("list folders request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	c.cache.Reconcile(out)
	return out, nil
}

// GetFolder fetches a single folder.
func (c *Client) GetFolder(ctx context.Context, id string) (*Folder, error) {
	var out Folder
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/folders/" + id)
	if err != nil {
		return nil, fmt.Errorf("get folder request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	c.cache.Put(out)
	return &out, nil
}

// CreateFolder creates a folder and adds it to the cache.
func (c *Client) CreateFolder(ctx context.Context, req CreateFolderRequest) (*Folder, error) {
	var out Folder
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/folders")
	if err != nil {
		return nil, fmt.Errorf("create folder request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	c.cache.Put(out)
	return &out, nil
}

// UpdateFolder updates a folder and refreshes it in the cache.
func (c *Client) UpdateFolder(ctx context.Context, id string, req UpdateFolderRequest) (*Folder, error) {
	var out Folder
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Put("/api/folders/" + id)
	if err != nil {
		return nil, fmt.Errorf("update folder request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	c.cache.Put(out)
	return &out, nil
}

// DeleteFolder deletes a folder and evicts it from the cache. The server
// removes the folder's notes with it.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/folders/" + id)
	if err != nil {
		return fmt.Errorf("delete folder request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return err
	}
	c.cache.Remove(id)
	return nil
}

// FolderStats fetches a folder's note statistics.
func (c *Client) FolderStats(ctx context.Context, id string) (*FolderStats, error) {
	var out FolderStats
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/folders/" + id + "/stats")
	if err != nil {
		return nil, fmt.Errorf("folder stats request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListNotes fetches one page of a folder's notes.
func (c *Client) ListNotes(ctx context.Context, folderID string, params ListParams) (*NoteList, error) {
	var out NoteList
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params.queryParams()).
		SetResult(&out).
		Get("/api/notes/folder/" + folderID)
	if err != nil {
		return nil, fmt.Errorf("list notes request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchNotes fetches matching notes across all folders.
func (c *Client) SearchNotes(ctx context.Context, search string, page, limit int) (*NoteList, error) {
	params := map[string]string{"q": search}
	if page > 0 {
		params["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var out NoteList
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/api/notes/search/global")
	if err != nil {
		return nil, fmt.Errorf("search notes request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNote fetches a single note with its folder expanded.
func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	var out Note
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/notes/" + id)
	if err != nil {
		return nil, fmt.Errorf("get note request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateNote creates a note. The owning folder's cached note count is
// incremented immediately rather than waiting for the next reload.
func (c *Client) CreateNote(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	var out Note
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/notes")
	if err != nil {
		return nil, fmt.Errorf("create note request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	c.cache.NoteCreated(req.FolderID)
	return &out, nil
}

// UpdateNote updates a note.
func (c *Client) UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*Note, error) {
	var out Note
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Put("/api/notes/" + id)
	if err != nil {
		return nil, fmt.Errorf("update note request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote deletes a note and optimistically decrements the owning
// folder's cached note count.
func (c *Client) DeleteNote(ctx context.Context, id, folderID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/notes/" + id)
	if err != nil {
		return fmt.Errorf("delete note request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return err
	}
	c.cache.NoteDeleted(folderID)
	return nil
}

// TogglePin flips a note's pinned flag.
func (c *Client) TogglePin(ctx context.Context, id string) (*Note, error) {
	var out Note
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Patch("/api/notes/" + id + "/pin")
	if err != nil {
		return nil, fmt.Errorf("toggle pin request: %w", err)
	}
	if err := mapError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p ListParams) queryParams() map[string]string {
	out := map[string]string{}
	if p.Search != "" {
		out["search"] = p.Search
	}
	if p.SortBy != "" {
		out["sortBy"] = p.SortBy
	}
	if p.SortOrder != "" {
		out["sortOrder"] = p.SortOrder
	}
	if p.Page > 0 {
		out["page"] = strconv.Itoa(p.Page)
	}
	if p.Limit > 0 {
		out["limit"] = strconv.Itoa(p.Limit)
	}
	return out
}
