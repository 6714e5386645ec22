// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/api/middleware"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/pool"
	"github.com/pooledstaking/pstake/test/datagen"
)

func newTestHandler(t *testing.T, withLogs bool) http.Handler {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var logDB *logdb.LogDB
	if withLogs {
		logDB, err = logdb.NewMem()
		require.NoError(t, err)
		t.Cleanup(func() { logDB.Close() })
	}
	p, err := pool.New(db, logDB, access.NewList(), pool.Options{})
	require.NoError(t, err)

	handler, closeSubs := NewAPIHandler(p, logDB, APIOptions{
		AllowedOrigins: "https://a.example, https://B.example",
		LogsLimit:      10,
		PageLimit:      10,
		EnableMetrics:  true,
	})
	t.Cleanup(closeSubs)
	return handler
}

func TestAPIHandlerRoutes(t *testing.T) {
	ts := httptest.NewServer(newTestHandler(t, true))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/node/status")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))

	res, err = http.Post(ts.URL+"/events", "application/json", strings.NewReader(`{"kinds":["Nope"]}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = http.Post(ts.URL+"/actions/burn", "application/json",
		strings.NewReader(`{"caller":"`+datagen.RandAddress().String()+`","contract":"`+datagen.RandAddress().String()+`","amount":"1"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, string(reverts.Unauthorized), res.Header.Get(utils.RevertHeader))

	res, err = http.Get(ts.URL + "/actions?limit=11")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestAPIHandlerWithoutLogDB(t *testing.T) {
	ts := httptest.NewServer(newTestHandler(t, false))
	defer ts.Close()

	res, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAPIHandlerCORS(t *testing.T) {
	handler := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodGet, "/node/status", nil)
	req.Header.Set("Origin", "https://b.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://b.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/node/status", nil)
	req.Header.Set("Origin", "https://c.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPITimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	url, closeSrv, err := StartAPIServer("localhost:0", slow, 50*time.Millisecond)
	require.NoError(t, err)
	defer closeSrv()

	res, err := http.Get(url)
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "request timed out", string(body))
}

func TestMetricsServer(t *testing.T) {
	url, closeSrv, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer closeSrv()

	res, err := http.Get(url)
	require.NoError(t, err)
	res.Body.Close()
	assert.Less(t, res.StatusCode, 300)
}
