package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/errs"
)

const maxBodyBytes int64 = 1 << 20

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(limit)
		}
		return nil, errs.NewMalformedPayloadError("request", err)
	}
	return body, nil
}

// decodeJSON reads the body and unmarshals it onto dst. Keys absent from the
// body leave dst untouched, which is what partial updates rely on.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		return err
	}
	return unmarshalBody(body, dst)
}

func unmarshalBody(body []byte, dst any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return errs.NewInvalidJSONError(errors.New("empty body"))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// expandDates rewrites date-only values ("2024-05-01") of the given keys to
// RFC 3339 so they decode into time.Time. Empty strings become null.
func expandDates(body []byte, keys ...string) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}

	changed := false
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) != nil {
			continue
		}
		switch {
		case s == "":
			fields[key] = json.RawMessage("null")
			changed = true
		case len(s) == len("2006-01-02"):
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return nil, errs.NewBadRequestError(key + " must be a valid date")
			}
			encoded, _ := json.Marshal(t)
			fields[key] = encoded
			changed = true
		}
	}
	if !changed {
		return body, nil
	}
	return json.Marshal(fields)
}

// parseID reads the {id} URL parameter. Ids that cannot be parsed are
// reported the same way as ids that do not exist.
func parseID(r *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.NewNotFound(entity)
	}
	return id, nil
}

// queryPage reads page and limit, falling back to defaults on bad input.
func queryPage(r *http.Request) database.PageRequest {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = database.DefaultPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = database.DefaultLimit
	}
	return database.NewPageRequest(page, limit)
}

// queryBool returns nil unless the parameter is exactly "true" or "false".
func queryBool(r *http.Request, key string) *bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func queryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
