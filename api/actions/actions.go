// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/pool"
)

type Actions struct {
	pool  *pool.Pool
	limit uint64
}

func New(pool *pool.Pool, limit uint64) *Actions {
	return &Actions{pool, limit}
}

func (a *Actions) handleGetActions(w http.ResponseWriter, req *http.Request) error {
	offset, err := utils.QueryUint64(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := utils.QueryUint64(req, "limit", a.limit)
	if err != nil {
		return err
	}
	if limit > a.limit {
		return utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", a.limit))
	}
	list, total, err := a.pool.PendingActions(offset, limit)
	if err != nil {
		return err
	}
	out := &api.Actions{Total: total, Items: make([]*api.Action, 0, len(list))}
	for _, action := range list {
		out.Items = append(out.Items, api.ConvertAction(action))
	}
	return utils.WriteJSON(w, out)
}

func (a *Actions) parseActionRequest(req *http.Request) (*api.ActionRequest, error) {
	var body api.ActionRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

func (a *Actions) handlePushBurn(w http.ResponseWriter, req *http.Request) error {
	body, err := a.parseActionRequest(req)
	if err != nil {
		return err
	}
	action, receipt, err := a.pool.PushBurn(body.Caller, body.Contract, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &api.ActionResult{Action: api.ConvertAction(action), Receipt: api.ConvertReceipt(receipt)})
}

func (a *Actions) handlePushReward(w http.ResponseWriter, req *http.Request) error {
	body, err := a.parseActionRequest(req)
	if err != nil {
		return err
	}
	action, receipt, err := a.pool.PushReward(body.Caller, body.Contract, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &api.ActionResult{Action: api.ConvertAction(action), Receipt: api.ConvertReceipt(receipt)})
}

func (a *Actions) handleProcess(w http.ResponseWriter, _ *http.Request) error {
	settlement, receipt, err := a.pool.ProcessPendingActions()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertSettlement(settlement, receipt))
}

func (a *Actions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /actions").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetActions))
	sub.Path("/burn").
		Methods(http.MethodPost).
		Name("POST /actions/burn").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePushBurn))
	sub.Path("/reward").
		Methods(http.MethodPost).
		Name("POST /actions/reward").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePushReward))
	sub.Path("/process").
		Methods(http.MethodPost).
		Name("POST /actions/process").
		HandlerFunc(utils.WrapHandlerFunc(a.handleProcess))
}
