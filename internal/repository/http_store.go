package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// HTTPStore talks to a `planboard serve` instance. It implements RemoteStore,
// LaneRepo and LibraryRepo so a CLI can run entirely against a hosted board.
type HTTPStore struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var (
	_ RemoteStore = (*HTTPStore)(nil)
	_ LaneRepo    = (*HTTPStore)(nil)
	_ LibraryRepo = (*HTTPStore)(nil)
)

// NewHTTPStore creates a client for the API rooted at baseURL
// (e.g. http://localhost:8080). apiKey may be empty.
func NewHTTPStore(baseURL, apiKey string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (s *HTTPStore) ListItems(ctx context.Context) ([]domain.Tactic, error) {
	var records []TacticRecord
	if err := s.do(ctx, http.MethodGet, "/tactics", nil, &records); err != nil {
		return nil, fmt.Errorf("listing tactics: %w", err)
	}
	out := make([]domain.Tactic, len(records))
	for i, r := range records {
		out[i] = r.Tactic()
	}
	return out, nil
}

func (s *HTTPStore) InsertItem(ctx context.Context, t domain.Tactic) error {
	if err := s.do(ctx, http.MethodPost, "/tactics", RecordFromTactic(t), nil); err != nil {
		return fmt.Errorf("inserting tactic: %w", err)
	}
	return nil
}

func (s *HTTPStore) UpdateItem(ctx context.Context, id string, fields TacticFields) error {
	body := UpdateTacticRequest{Title: fields.Title, Budget: fields.Budget, Content: fields.Content}
	if err := s.do(ctx, http.MethodPatch, "/tactics/"+url.PathEscape(id), body, nil); err != nil {
		return fmt.Errorf("updating tactic: %w", err)
	}
	return nil
}

func (s *HTTPStore) MoveItem(ctx context.Context, id, laneID string, rank float64) error {
	body := MoveTacticRequest{SectionID: laneID, Rank: rank}
	if err := s.do(ctx, http.MethodPut, "/tactics/"+url.PathEscape(id)+"/lane", body, nil); err != nil {
		return fmt.Errorf("moving tactic: %w", err)
	}
	return nil
}

func (s *HTTPStore) DeleteItem(ctx context.Context, id string) error {
	err := s.do(ctx, http.MethodDelete, "/tactics/"+url.PathEscape(id), nil, nil)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting tactic: %w", err)
	}
	return nil
}

func (s *HTTPStore) ListLanes(ctx context.Context) ([]domain.Lane, error) {
	var records []LaneRecord
	if err := s.do(ctx, http.MethodGet, "/lanes", nil, &records); err != nil {
		return nil, fmt.Errorf("listing lanes: %w", err)
	}
	lanes := make([]domain.Lane, len(records))
	for i, r := range records {
		lanes[i] = domain.Lane{ID: r.ID, Title: r.Title, Position: r.Position}
	}
	return lanes, nil
}

func (s *HTTPStore) List(ctx context.Context, category string) ([]*domain.LibraryTactic, error) {
	path := "/library"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var records []LibraryRecord
	if err := s.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, fmt.Errorf("listing library tactics: %w", err)
	}
	out := make([]*domain.LibraryTactic, len(records))
	for i, r := range records {
		out[i] = r.LibraryTactic()
	}
	return out, nil
}

func (s *HTTPStore) GetByID(ctx context.Context, id string) (*domain.LibraryTactic, error) {
	var rec LibraryRecord
	if err := s.do(ctx, http.MethodGet, "/library/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, fmt.Errorf("library tactic %s: %w", id, err)
	}
	return rec.LibraryTactic(), nil
}

func (s *HTTPStore) Create(ctx context.Context, l *domain.LibraryTactic) error {
	if err := s.do(ctx, http.MethodPost, "/library", RecordFromLibrary(l), nil); err != nil {
		return fmt.Errorf("inserting library tactic: %w", err)
	}
	return nil
}

func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, "/library/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting library tactic: %w", err)
	}
	return nil
}

// statusError carries a non-2xx response from the API.
type statusError struct {
	Status int
	Detail string
}

func (e *statusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// Unwrap maps well-known statuses onto package sentinels so callers can use
// errors.Is regardless of transport.
func (e *statusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnprocessableEntity:
		return ErrInvalidLane
	default:
		return nil
	}
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var problem struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&problem)
		return &statusError{Status: resp.StatusCode, Detail: problem.Detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
