// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

// Context binds storage wrappers to a contract address and a state.
type Context struct {
	address pstake.Address
	state   *state.State
}

func NewContext(address pstake.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() pstake.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
