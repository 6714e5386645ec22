// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/health"
)

type queue struct {
	now     uint64
	pending []*actions.Action
}

func (q *queue) Now() uint64     { return q.now }
func (q *queue) LastSeq() uint64 { return 3 }
func (q *queue) PendingActions(offset, limit uint64) ([]*actions.Action, uint64, error) {
	end := min(offset+limit, uint64(len(q.pending)))
	return q.pending[offset:end], uint64(len(q.pending)), nil
}

func TestHealthAPI(t *testing.T) {
	q := &queue{now: 100}
	router := mux.NewRouter()
	NewAPI(health.New(q, 30*time.Second)).Mount(router, "/admin/health")
	ts := httptest.NewServer(router)
	defer ts.Close()

	get := func(query string) (int, *health.Status) {
		res, err := http.Get(ts.URL + "/admin/health" + query)
		require.NoError(t, err)
		defer res.Body.Close()
		if res.StatusCode == http.StatusBadRequest {
			return res.StatusCode, nil
		}
		var status health.Status
		require.NoError(t, utils.ParseJSON(res.Body, &status))
		return res.StatusCode, &status
	}

	code, status := get("")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(3), status.LastSeq)

	q.pending = []*actions.Action{{ID: 1, Kind: actions.Burn, PushedAt: 50}}
	code, status = get("")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, status.Healthy)
	assert.Equal(t, uint64(1), status.PendingActions)

	code, status = get("?maxPendingAge=2m")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Healthy)

	code, _ = get("?maxPendingAge=soon")
	assert.Equal(t, http.StatusBadRequest, code)
}
