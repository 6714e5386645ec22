// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/pool"
)

type Node struct {
	pool *pool.Pool
}

func New(pool *pool.Pool) *Node {
	return &Node{pool}
}

func (n *Node) status() (*api.Status, error) {
	status := &api.Status{Seq: n.pool.LastSeq(), Time: n.pool.Now()}
	var err error
	if status.Custody, err = n.pool.Custody(); err != nil {
		return nil, err
	}
	if status.TotalSupply, err = n.pool.TotalSupply(); err != nil {
		return nil, err
	}
	if _, status.PendingActions, err = n.pool.PendingActions(0, 0); err != nil {
		return nil, err
	}
	if _, status.UnstakeRequests, err = n.pool.UnstakeRequests(0, 0); err != nil {
		return nil, err
	}
	return status, nil
}

func (n *Node) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	status, err := n.status()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetStatus))
}
