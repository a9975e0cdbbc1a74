package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kode4food/docket/pkg/api"
	"github.com/kode4food/docket/pkg/log"
)

// HTTPStore reaches the record store over HTTP with JSON bodies. Responses
// are interpreted with gjson because the store's response contract is loose:
// a per-record error object, an explicit success flag, and an echoed object
// id all come and go depending on the store version
type HTTPStore struct {
	httpClient *http.Client
	cache      *SchemaCache
	baseURL    string
}

var (
	ErrHTTPError     = errors.New("record store returned HTTP error")
	ErrInvalidSource = errors.New("invalid source id")
)

var _ RecordStore = (*HTTPStore)(nil)

// NewHTTPStore creates a record store client. The schema cache is optional;
// a nil cache means every target resolution hits the store
func NewHTTPStore(
	baseURL string, timeout time.Duration, cache *SchemaCache,
) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		cache:   cache,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ResolveTarget fetches the source descriptor and returns the mutation
// target for it. The descriptor's schema is cached; on a cache hit only the
// endpoint URLs are derived locally
func (s *HTTPStore) ResolveTarget(
	ctx context.Context, sourceID api.SourceID,
) (*Target, error) {
	if sourceID == "" {
		return nil, ErrInvalidSource
	}

	target := &Target{
		SourceID:  sourceID,
		UpdateURL: s.endpoint(sourceID, "update"),
		ReloadURL: s.endpoint(sourceID, "reload"),
	}

	if s.cache != nil {
		if schema, ok := s.cache.Get(ctx, sourceID); ok {
			target.Schema = schema
			return target, nil
		}
	}

	body, err := s.get(ctx, s.endpoint(sourceID, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTargetUnavailable, sourceID,
			err)
	}

	if update := gjson.GetBytes(body, "updateEndpoint"); update.Exists() {
		target.UpdateURL = s.resolve(update.String())
	}
	if reload := gjson.GetBytes(body, "reloadEndpoint"); reload.Exists() {
		target.ReloadURL = s.resolve(reload.String())
	}
	if target.UpdateURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoUpdateEndpoint, sourceID)
	}

	target.Schema = parseSchema(body)
	if s.cache != nil && target.Schema != nil {
		s.cache.Put(ctx, sourceID, target.Schema)
	}
	return target, nil
}

// ApplyUpdate issues a single attribute-patch call and normalizes the
// response into an UpdateResult. It never retries
func (s *HTTPStore) ApplyUpdate(
	ctx context.Context, target *Target, recordID int64, patch api.Attrs,
) (*UpdateResult, error) {
	reqBody, err := json.Marshal(map[string]any{
		"id":         recordID,
		"attributes": patch,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.post(ctx, target.UpdateURL, reqBody)
	if err != nil {
		slog.Error("Record update call failed",
			log.SourceID(target.SourceID),
			log.CaseID(recordID),
			log.Error(err))
		return nil, err
	}

	return interpretUpdate(body), nil
}

// Reload asks the source to re-fetch its records. Best effort; callers log
// and move on when this fails
func (s *HTTPStore) Reload(ctx context.Context, target *Target) error {
	if target.ReloadURL == "" {
		return nil
	}
	_, err := s.post(ctx, target.ReloadURL, []byte("{}"))
	return err
}

// interpretUpdate maps the store's loose response shape onto the
// three-valued result. An explicit per-record error object always wins; an
// explicit success flag or an echoed object id means applied; a response
// with neither marker is ambiguous and carries the raw body for diagnosis
func interpretUpdate(body []byte) *UpdateResult {
	if errObj := gjson.GetBytes(body, "error"); errObj.Exists() {
		return &UpdateResult{
			Kind:    ResultRejected,
			Code:    errObj.Get("code").Int(),
			Message: errObj.Get("message").String(),
		}
	}

	success := gjson.GetBytes(body, "success")
	objectID := gjson.GetBytes(body, "objectId")

	if success.Exists() {
		if !success.Bool() {
			return &UpdateResult{
				Kind:    ResultRejected,
				Message: "update not applied",
			}
		}
		return &UpdateResult{
			Kind:     ResultApplied,
			ObjectID: objectID.Int(),
		}
	}

	if objectID.Exists() {
		return &UpdateResult{
			Kind:     ResultApplied,
			ObjectID: objectID.Int(),
		}
	}

	return &UpdateResult{
		Kind: ResultAmbiguous,
		Raw:  string(body),
	}
}

func parseSchema(body []byte) *Schema {
	fields := gjson.GetBytes(body, "fields")
	if !fields.Exists() || !fields.IsArray() {
		return nil
	}

	schema := &Schema{Fields: map[api.Name]Field{}}
	fields.ForEach(func(_, field gjson.Result) bool {
		name := api.Name(field.Get("name").String())
		if name == "" {
			return true
		}
		schema.Fields[name] = Field{
			Alias: field.Get("alias").String(),
			Type:  field.Get("type").String(),
		}
		return true
	})

	if len(schema.Fields) == 0 {
		return nil
	}
	return schema
}

func (s *HTTPStore) endpoint(sourceID api.SourceID, op string) string {
	res := fmt.Sprintf("%s/sources/%s", s.baseURL, url.PathEscape(
		string(sourceID),
	))
	if op != "" {
		res += "/" + op
	}
	return res
}

func (s *HTTPStore) resolve(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return endpoint
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}

func (s *HTTPStore) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return s.do(req)
}

func (s *HTTPStore) post(
	ctx context.Context, u string, body []byte,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, u, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return s.do(req)
}

func (s *HTTPStore) do(req *http.Request) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrHTTPError, resp.StatusCode)
	}
	return body, nil
}
