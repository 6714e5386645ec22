// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/health"
)

type API struct {
	health *health.Health
}

func NewAPI(h *health.Health) *API {
	return &API{health: h}
}

func (a *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxPendingAge := a.health.MaxPendingAge()
	if s := r.URL.Query().Get("maxPendingAge"); s != "" {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "maxPendingAge"))
		}
		maxPendingAge = parsed
	}

	status, err := a.health.Status(maxPendingAge)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", utils.JSONContentType)
	if status.Healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return json.NewEncoder(w).Encode(status)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))
}
