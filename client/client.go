// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides a typed HTTP client for the pooled staking API.
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/pstake"
)

type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// URL returns the base url of the API.
func (c *Client) URL() string { return c.url }

func (c *Client) GetStaker(addr pstake.Address) (*api.Staker, error) {
	return getJSON[api.Staker](c, "/stakers/"+addr.String(), "staker")
}

func (c *Client) GetContractStake(staker, contract pstake.Address) (*api.ContractStake, error) {
	return getJSON[api.ContractStake](c, "/stakers/"+staker.String()+"/contracts/"+contract.String(), "contract stake")
}

func (c *Client) GetBalance(addr pstake.Address) (*api.Balance, error) {
	return getJSON[api.Balance](c, "/stakers/"+addr.String()+"/balance", "balance")
}

func (c *Client) GetContract(addr pstake.Address) (*api.Contract, error) {
	return getJSON[api.Contract](c, "/contracts/"+addr.String(), "contract")
}

func (c *Client) GetParams() ([]*api.Param, error) {
	params, err := getJSON[[]*api.Param](c, "/params", "params")
	if err != nil {
		return nil, err
	}
	return *params, nil
}

// GetParam accepts either the parameter name or its numeric id.
func (c *Client) GetParam(name string) (*api.Param, error) {
	return getJSON[api.Param](c, "/params/"+url.PathEscape(name), "param")
}

func (c *Client) UpdateParam(caller pstake.Address, name string, value *uint256.Int) (*api.Param, error) {
	return postJSON[api.Param](c, "/params/"+url.PathEscape(name), &api.ParamRequest{Caller: caller, Value: value}, "param update")
}

func (c *Client) DepositAndStake(req *api.DepositAndStakeRequest) (*api.Receipt, error) {
	return postJSON[api.Receipt](c, "/staking/deposit-and-stake", req, "deposit and stake")
}

func (c *Client) Withdraw(caller pstake.Address, amount *uint256.Int) (*api.Receipt, error) {
	return postJSON[api.Receipt](c, "/staking/withdraw", &api.AmountRequest{Caller: caller, Amount: amount}, "withdraw")
}

func (c *Client) Unstake(req *api.UnstakeRequestBody) (*api.UnstakeResult, error) {
	return postJSON[api.UnstakeResult](c, "/staking/unstake", req, "unstake")
}

func (c *Client) WithdrawReward(caller pstake.Address, amount *uint256.Int) (*api.Receipt, error) {
	return postJSON[api.Receipt](c, "/staking/withdraw-reward", &api.AmountRequest{Caller: caller, Amount: amount}, "withdraw reward")
}

func (c *Client) Approve(caller pstake.Address, amount *uint256.Int) (*api.Receipt, error) {
	return postJSON[api.Receipt](c, "/staking/approve", &api.AmountRequest{Caller: caller, Amount: amount}, "approve")
}

func (c *Client) PushBurn(caller, contract pstake.Address, amount *uint256.Int) (*api.ActionResult, error) {
	return postJSON[api.ActionResult](c, "/actions/burn", &api.ActionRequest{Caller: caller, Contract: contract, Amount: amount}, "burn")
}

func (c *Client) PushReward(caller, contract pstake.Address, amount *uint256.Int) (*api.ActionResult, error) {
	return postJSON[api.ActionResult](c, "/actions/reward", &api.ActionRequest{Caller: caller, Contract: contract, Amount: amount}, "reward")
}

// Process settles every ready action and matured unstake request.
func (c *Client) Process() (*api.Settlement, error) {
	return postJSON[api.Settlement](c, "/actions/process", struct{}{}, "process")
}

func (c *Client) GetActions(offset, limit uint64) (*api.Actions, error) {
	return getJSON[api.Actions](c, fmt.Sprintf("/actions?offset=%d&limit=%d", offset, limit), "actions")
}

func (c *Client) GetUnstakes(offset, limit uint64) (*api.UnstakeRequests, error) {
	return getJSON[api.UnstakeRequests](c, fmt.Sprintf("/unstakes?offset=%d&limit=%d", offset, limit), "unstake requests")
}

func (c *Client) FilterEvents(filter *api.EventFilter) ([]*api.Event, error) {
	events, err := postJSON[[]*api.Event](c, "/events", filter, "events")
	if err != nil {
		return nil, err
	}
	return *events, nil
}

func (c *Client) SumEvents(filter *api.EventFilter) (*api.EventSum, error) {
	return postJSON[api.EventSum](c, "/events/sum", filter, "event sum")
}

func (c *Client) Status() (*api.Status, error) {
	return getJSON[api.Status](c, "/node/status", "status")
}
