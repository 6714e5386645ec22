// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/pool"
)

type Contracts struct {
	pool *pool.Pool
}

func New(pool *pool.Pool) *Contracts {
	return &Contracts{pool}
}

func (c *Contracts) handleGetContract(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	summary, err := c.pool.ContractSummary(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertContract(summary))
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /contracts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetContract))
}
