// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/pool"
)

type Params struct {
	pool *pool.Pool
}

func New(pool *pool.Pool) *Params {
	return &Params{pool}
}

func (p *Params) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	entries, err := p.pool.Parameters()
	if err != nil {
		return err
	}
	out := make([]*api.Param, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.ConvertParam(e))
	}
	return utils.WriteJSON(w, out)
}

func (p *Params) find(key params.Key) (*api.Param, error) {
	entries, err := p.pool.Parameters()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Key == key {
			return api.ConvertParam(e), nil
		}
	}
	return nil, errors.Errorf("parameter %v not listed", key)
}

func (p *Params) handleGetParam(w http.ResponseWriter, req *http.Request) error {
	key, err := params.ParseKey(mux.Vars(req)["name"])
	if err != nil {
		return err
	}
	param, err := p.find(key)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, param)
}

func (p *Params) handleUpdateParam(w http.ResponseWriter, req *http.Request) error {
	key, err := params.ParseKey(mux.Vars(req)["name"])
	if err != nil {
		return err
	}
	var body api.ParamRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Value == nil {
		return utils.BadRequest(errors.New("value: missing"))
	}
	if _, err := p.pool.UpdateParameter(body.Caller, key, body.Value); err != nil {
		return err
	}
	param, err := p.find(key)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, param)
}

func (p *Params) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /params").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetParams))
	sub.Path("/{name}").
		Methods(http.MethodGet).
		Name("GET /params/{name}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetParam))
	sub.Path("/{name}").
		Methods(http.MethodPost).
		Name("POST /params/{name}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleUpdateParam))
}
