package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/utils"
	"github.com/MKhiriev/go-time-sync/models"
)

const apiPrefix = "/api/v1/"

// NewHTTPServerAdapter builds a [RemoteAPI] whose entity APIs share one
// resty client pointed at adapterCfg.HTTPAddress and authenticated with
// appCfg.APIToken.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, log *logger.Logger) (*RemoteAPI, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	t := &transport{
		client:     utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		token:      strings.TrimSpace(appCfg.APIToken),
		maxRetries: max(adapterCfg.MaxRetries, 0),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		logger:     log,
	}

	return &RemoteAPI{
		Workspaces:  newHTTPEntityAPI[models.Workspace](t),
		Preferences: newHTTPEntityAPI[models.Preferences](t),
		Users:       newHTTPEntityAPI[models.User](t),
		Clients:     newHTTPEntityAPI[models.Client](t),
		Tags:        newHTTPEntityAPI[models.Tag](t),
		Projects:    newHTTPEntityAPI[models.Project](t),
		Tasks:       newHTTPEntityAPI[models.Task](t),
		TimeEntries: newHTTPEntityAPI[models.TimeEntry](t),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// transport is the state shared by all entity APIs.
type transport struct {
	client     *utils.HTTPClient
	token      string
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     *logger.Logger
}

// authedRequest returns a request carrying the bearer token. An expired JWT
// is rejected locally without a round trip.
func (t *transport) authedRequest(ctx context.Context) (*resty.Request, error) {
	if t.token == "" {
		return nil, fmt.Errorf("%w: no api token configured", ErrUnauthorized)
	}
	if utils.TokenExpired(t.token, time.Now()) {
		return nil, fmt.Errorf("%w: api token expired", ErrUnauthorized)
	}

	return t.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetAuthToken(t.token), nil
}

type httpEntityAPI[T models.Entity[T]] struct {
	*transport
	entityType models.EntityType
	path       string
}

func newHTTPEntityAPI[T models.Entity[T]](t *transport) *httpEntityAPI[T] {
	var zero T
	entityType := zero.EntityType()
	return &httpEntityAPI[T]{
		transport:  t,
		entityType: entityType,
		path:       apiPrefix + entityType.Collection(),
	}
}

func (h *httpEntityAPI[T]) itemPath(id int64) string {
	if h.entityType.IsSingleton() {
		return h.path
	}
	return h.path + "/" + strconv.FormatInt(id, 10)
}

// Create implements [EntityAPI]. It POSTs e to the collection; singletons are
// PUT to their fixed path instead.
func (h *httpEntityAPI[T]) Create(ctx context.Context, e T) (T, error) {
	if h.entityType.IsSingleton() {
		return h.send(ctx, http.MethodPut, h.path, e)
	}
	return h.send(ctx, http.MethodPost, h.path, e)
}

// Update implements [EntityAPI].
func (h *httpEntityAPI[T]) Update(ctx context.Context, e T) (T, error) {
	return h.send(ctx, http.MethodPut, h.itemPath(e.Meta().ID), e)
}

// Delete implements [EntityAPI].
func (h *httpEntityAPI[T]) Delete(ctx context.Context, id int64) error {
	if h.entityType.IsSingleton() {
		return fmt.Errorf("%w: delete %s", ErrUnsupportedOperation, h.entityType)
	}

	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete(h.itemPath(id))
	if err != nil {
		return fmt.Errorf("%w: delete %s %d: %w", ErrTransport, h.entityType, id, err)
	}

	return mapHTTPError(resp)
}

// GetSince implements [EntityAPI]. The fetch is idempotent and therefore
// retried with exponential backoff on transport errors, 429 and 5xx.
func (h *httpEntityAPI[T]) GetSince(ctx context.Context, since *time.Time) ([]T, error) {
	log := logger.FromContext(ctx)
	attempt := 0

	return backoff.Retry(ctx, func() ([]T, error) {
		attempt++
		items, err := h.getSince(ctx, since)
		if err == nil {
			return items, nil
		}
		if !isRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		log.Warn().Err(err).
			Str("func", "httpEntityAPI.GetSince").
			Str("entity_type", h.entityType.String()).
			Int("attempt", attempt).
			Msg("fetch failed, retrying")
		return nil, err
	},
		backoff.WithBackOff(h.newBackOff()),
		backoff.WithMaxTries(uint(h.maxRetries+1)),
	)
}

func (h *httpEntityAPI[T]) getSince(ctx context.Context, since *time.Time) ([]T, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	if since != nil {
		req.SetQueryParam("since", since.UTC().Format(time.RFC3339Nano))
	}

	resp, err := req.Get(h.path)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrTransport, h.entityType, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0 {
		return nil, nil
	}

	if h.entityType.IsSingleton() {
		var item T
		if err = json.Unmarshal(resp.Body(), &item); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecodingResponse, h.entityType, err)
		}
		return []T{item}, nil
	}

	var items []T
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodingResponse, h.entityType, err)
	}
	return items, nil
}

func (h *httpEntityAPI[T]) send(ctx context.Context, method, path string, e T) (T, error) {
	var stored T

	req, err := h.authedRequest(ctx)
	if err != nil {
		return stored, err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(e).
		Execute(method, path)
	if err != nil {
		return stored, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, h.entityType, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return stored, err
	}

	if err = json.Unmarshal(resp.Body(), &stored); err != nil {
		return stored, fmt.Errorf("%w: %s: %w", ErrDecodingResponse, h.entityType, err)
	}

	return stored, nil
}
