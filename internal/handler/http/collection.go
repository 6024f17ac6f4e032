package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-time-sync/internal/app"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/service"
	"github.com/MKhiriev/go-time-sync/internal/utils"
	"github.com/MKhiriev/go-time-sync/models"
)

// collectionHandler serves the REST collection of one entity type.
type collectionHandler[T models.Entity[T]] struct {
	entityType models.EntityType
	service    service.CollectionService[T]
}

// mountCollection registers the routes of T on r. Singletons are read and
// replaced on the collection path itself; every other type gets the usual
// list, create, update and delete routes.
func mountCollection[T models.Entity[T]](r chi.Router, svc service.CollectionService[T]) {
	var zero T
	c := &collectionHandler[T]{entityType: zero.EntityType(), service: svc}
	path := apiPrefix + c.entityType.Collection()

	if c.entityType.IsSingleton() {
		r.Get(path, c.getSingleton)
		r.Put(path, c.putSingleton)
		return
	}

	r.Get(path, c.list)
	r.Post(path, c.create)
	r.Put(path+"/{id}", c.update)
	r.Delete(path+"/{id}", c.delete)
}

func (c *collectionHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	since, ok := parseSince(w, r)
	if !ok {
		return
	}

	items, err := c.service.List(r.Context(), since)
	if err != nil {
		writeError(w, r, "collectionHandler.list", err)
		return
	}
	if items == nil {
		items = []T{}
	}

	c.respond(w, r, items, http.StatusOK)
}

func (c *collectionHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	e, ok := c.decode(w, r)
	if !ok {
		return
	}

	stored, err := c.service.Create(r.Context(), e)
	if err != nil {
		writeError(w, r, "collectionHandler.create", err)
		return
	}

	c.respond(w, r, stored, http.StatusCreated)
}

func (c *collectionHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	e, ok := c.decode(w, r)
	if !ok {
		return
	}

	// The body may omit the id; the path is authoritative.
	meta := e.Meta()
	switch meta.ID {
	case 0:
		meta.ID = id
		e = e.WithMeta(meta)
	case id:
	default:
		writeError(w, r, "collectionHandler.update", service.ErrIDMismatch)
		return
	}

	stored, err := c.service.Update(r.Context(), e)
	if err != nil {
		writeError(w, r, "collectionHandler.update", err)
		return
	}

	c.respond(w, r, stored, http.StatusOK)
}

func (c *collectionHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, "collectionHandler.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getSingleton answers 204 when the singleton has not changed since the
// given time, otherwise the object itself.
func (c *collectionHandler[T]) getSingleton(w http.ResponseWriter, r *http.Request) {
	since, ok := parseSince(w, r)
	if !ok {
		return
	}

	items, err := c.service.List(r.Context(), since)
	if err != nil {
		writeError(w, r, "collectionHandler.getSingleton", err)
		return
	}
	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	c.respond(w, r, items[0], http.StatusOK)
}

func (c *collectionHandler[T]) putSingleton(w http.ResponseWriter, r *http.Request) {
	e, ok := c.decode(w, r)
	if !ok {
		return
	}

	stored, err := c.service.Update(r.Context(), e)
	if err != nil {
		writeError(w, r, "collectionHandler.putSingleton", err)
		return
	}

	c.respond(w, r, stored, http.StatusOK)
}

func (c *collectionHandler[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var e T
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		logger.FromRequest(r).Err(err).
			Str("func", "collectionHandler.decode").
			Str("entity_type", c.entityType.String()).
			Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return e, false
	}
	return e, true
}

func (c *collectionHandler[T]) respond(w http.ResponseWriter, r *http.Request, body any, status int) {
	if _, err := utils.WriteJSON(w, body, status); err != nil {
		logger.FromRequest(r).Err(err).
			Str("func", "collectionHandler.respond").
			Str("entity_type", c.entityType.String()).
			Send()
	}
}

// parseSince reads the optional since query parameter. Both RFC 3339 forms,
// with and without fractional seconds, are accepted.
func parseSince(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return nil, true
	}

	since, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "parseSince").Str("since", raw).Send()
		http.Error(w, app.MsgInvalidSince, http.StatusBadRequest)
		return nil, false
	}
	return &since, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.FromRequest(r).Warn().Str("func", "parseID").Str("id", raw).Msg("invalid id")
		http.Error(w, app.MsgInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
