// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api/actions"
	"github.com/pooledstaking/pstake/api/contracts"
	"github.com/pooledstaking/pstake/api/events"
	"github.com/pooledstaking/pstake/api/middleware"
	"github.com/pooledstaking/pstake/api/node"
	"github.com/pooledstaking/pstake/api/params"
	"github.com/pooledstaking/pstake/api/stakers"
	"github.com/pooledstaking/pstake/api/staking"
	"github.com/pooledstaking/pstake/api/subscriptions"
	"github.com/pooledstaking/pstake/api/unstakes"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/co"
	"github.com/pooledstaking/pstake/log"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/pool"
)

var logger = log.WithContext("pkg", "api")

type APIOptions struct {
	AllowedOrigins       string
	BacktraceLimit       uint64
	LogsLimit            uint64
	PageLimit            uint64
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// NewAPIHandler assembles the public API. The returned func closes
// hijacked subscription connections.
func NewAPIHandler(p *pool.Pool, logDB *logdb.LogDB, opts APIOptions) (http.Handler, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	routes := map[string]utils.APIServer{
		"/stakers":   stakers.New(p),
		"/contracts": contracts.New(p),
		"/staking":   staking.New(p),
		"/actions":   actions.New(p, opts.PageLimit),
		"/unstakes":  unstakes.New(p, opts.PageLimit),
		"/params":    params.New(p),
		"/node":      node.New(p),
	}
	closeSubs := func() {}
	if logDB != nil {
		routes["/events"] = events.New(logDB, opts.LogsLimit)
		subs := subscriptions.New(p, logDB, origins, opts.BacktraceLimit)
		routes["/subscriptions"] = subs
		closeSubs = subs.Close
	}
	for prefix, srv := range routes {
		srv.Mount(router, prefix)
	}

	if opts.EnableMetrics {
		router.Use(middleware.MetricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, utils.RevertHeader}),
	)(handler)

	reqLogs := opts.EnableReqLogger
	if reqLogs == nil {
		reqLogs = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, reqLogs, opts.SlowQueriesThreshold)(handler)

	return handler, closeSubs
}

// StartAPIServer serves handler on addr. Requests exceeding timeout
// are answered with 503.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout > 0 {
		handler = handleAPITimeout(handler, timeout)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// websocket upgrades are long lived and must not be cut by the timeout.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	timeoutHandler := http.TimeoutHandler(h, timeout, "request timed out")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			h.ServeHTTP(w, r)
			return
		}
		timeoutHandler.ServeHTTP(w, r)
	})
}
