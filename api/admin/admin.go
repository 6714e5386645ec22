// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/pooledstaking/pstake/api/admin/apilogs"
	healthAPI "github.com/pooledstaking/pstake/api/admin/health"
	"github.com/pooledstaking/pstake/api/admin/loglevel"
	"github.com/pooledstaking/pstake/health"
)

// NewHTTPHandler builds the operator facing handler served under /admin.
func NewHTTPHandler(logLevel *slog.LevelVar, health *health.Health, apiLogs *atomic.Bool) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	healthAPI.NewAPI(health).Mount(sub, "/health")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")

	return handlers.CompressHandler(router)
}
