// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking serves the member operations. The caller in each body is trusted; the
// API is expected to run behind an authenticating gateway.
package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/pool"
)

type Staking struct {
	pool *pool.Pool
}

func New(pool *pool.Pool) *Staking {
	return &Staking{pool}
}

func (s *Staking) handleDepositAndStake(w http.ResponseWriter, req *http.Request) error {
	var body api.DepositAndStakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := s.pool.DepositAndStake(body.Caller, body.Amount, body.Contracts, body.Stakes)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertReceipt(receipt))
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body api.AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := s.pool.WithdrawDeposit(body.Caller, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertReceipt(receipt))
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body api.UnstakeRequestBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	requests, receipt, err := s.pool.RequestUnstake(body.Caller, body.Contracts, body.Amounts)
	if err != nil {
		return err
	}
	result := &api.UnstakeResult{Receipt: api.ConvertReceipt(receipt)}
	for _, r := range requests {
		result.Requests = append(result.Requests, api.ConvertUnstakeRequest(r))
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleWithdrawReward(w http.ResponseWriter, req *http.Request) error {
	var body api.AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := s.pool.WithdrawReward(body.Caller, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertReceipt(receipt))
}

func (s *Staking) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body api.AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}
	receipt, err := s.pool.Approve(body.Caller, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertReceipt(receipt))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/deposit-and-stake").
		Methods(http.MethodPost).
		Name("POST /staking/deposit-and-stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleDepositAndStake))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /staking/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /staking/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/withdraw-reward").
		Methods(http.MethodPost).
		Name("POST /staking/withdraw-reward").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdrawReward))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST /staking/approve").
		HandlerFunc(utils.WrapHandlerFunc(s.handleApprove))
}
