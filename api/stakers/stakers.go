// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/pool"
)

type Stakers struct {
	pool *pool.Pool
}

func New(pool *pool.Pool) *Stakers {
	return &Stakers{pool}
}

func (s *Stakers) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	summary, err := s.pool.StakerSummary(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertStaker(summary))
}

func (s *Stakers) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	contract, err := utils.AddressVar(req, "contract")
	if err != nil {
		return err
	}
	summary, err := s.pool.StakerSummary(addr)
	if err != nil {
		return err
	}
	stake := &api.ContractStake{
		Contract:       contract,
		Staker:         addr,
		Stake:          new(uint256.Int),
		PendingUnstake: new(uint256.Int),
	}
	for _, cs := range api.ConvertStaker(summary).Contracts {
		if cs.Contract == contract {
			stake = cs
			break
		}
	}
	return utils.WriteJSON(w, stake)
}

func (s *Stakers) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	balance, err := s.pool.TokenBalance(addr)
	if err != nil {
		return err
	}
	allowance, err := s.pool.Allowance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &api.Balance{Address: addr, Balance: balance, Allowance: allowance})
}

func (s *Stakers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/{address}/contracts/{contract}").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}/contracts/{contract}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/{address}/balance").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}/balance").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetBalance))
}
