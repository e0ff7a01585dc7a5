package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// positiveQueryInt returns the query value when it parses to a positive
// integer, otherwise def.
func positiveQueryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// pagination returns 1-based page, capped limit and the row offset.
func pagination(r *http.Request) (page, limit, offset int) {
	page = positiveQueryInt(r, "page", 1)
	limit = positiveQueryInt(r, "limit", defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	// keep offset+limit within int
	if maxPage := math.MaxInt/limit - 1; page > maxPage {
		page = maxPage
	}
	return page, limit, (page - 1) * limit
}

// pathId parses the named route variable. Ids that aren't positive integers
// can't match a row, so they get the same 404 as a missing one.
func pathId(w http.ResponseWriter, r *http.Request, key, notFoundMsg string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		writeNotFound(w, notFoundMsg)
		return 0, false
	}
	return id, true
}
