// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/pstake"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// StatusOf maps an error to the http status it is responded with.
func StatusOf(err error) int {
	if he, ok := err.(*httpError); ok {
		return he.status
	}
	kind, ok := reverts.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case reverts.Unauthorized:
		return http.StatusForbidden
	case reverts.UnprocessedActionsPending:
		return http.StatusConflict
	case reverts.ProcessingFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// Reverted operations are responded with a status derived from the revert kind,
// other errors with http.StatusInternalServerError.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := StatusOf(err)
		if he, ok := err.(*httpError); ok && he.cause == nil {
			w.WriteHeader(status)
			return
		}
		if kind, ok := reverts.KindOf(err); ok {
			w.Header().Set(RevertHeader, string(kind))
		}
		http.Error(w, err.Error(), status)
	}
}

// RevertHeader carries the revert kind of a rejected operation.
const RevertHeader = "x-revert-kind"

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any

// APIServer is a group of routes mounted under a path prefix.
type APIServer interface {
	Mount(root *mux.Router, pathPrefix string)
}

// QueryUint64 parses the named query parameter, returning def when absent.
func QueryUint64(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(fmt.Errorf("%s: %w", name, err))
	}
	return v, nil
}

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (pstake.Address, error) {
	addr, err := pstake.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return pstake.Address{}, BadRequest(fmt.Errorf("%s: %w", name, err))
	}
	return addr, nil
}
