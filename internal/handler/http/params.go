package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

var errInvalidBody = errors.New("invalid request format")

// int64Param reads a positive integer path parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validator.New(name, name+" must be a positive integer")
	}
	return id, nil
}

// decodeJSON decodes the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}
