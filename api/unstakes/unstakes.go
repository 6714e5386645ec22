// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unstakes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/pool"
)

type Unstakes struct {
	pool  *pool.Pool
	limit uint64
}

func New(pool *pool.Pool, limit uint64) *Unstakes {
	return &Unstakes{pool, limit}
}

func (u *Unstakes) handleGetUnstakes(w http.ResponseWriter, req *http.Request) error {
	offset, err := utils.QueryUint64(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := utils.QueryUint64(req, "limit", u.limit)
	if err != nil {
		return err
	}
	if limit > u.limit {
		return utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", u.limit))
	}
	list, total, err := u.pool.UnstakeRequests(offset, limit)
	if err != nil {
		return err
	}
	out := &api.UnstakeRequests{Total: total, Items: make([]*api.UnstakeRequest, 0, len(list))}
	for _, r := range list {
		out.Items = append(out.Items, api.ConvertUnstakeRequest(r))
	}
	return utils.WriteJSON(w, out)
}

func (u *Unstakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /unstakes").
		HandlerFunc(utils.WrapHandlerFunc(u.handleGetUnstakes))
}
