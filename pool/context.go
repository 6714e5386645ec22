// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/builtin/token"
	"github.com/pooledstaking/pstake/state"
)

// Context is the working copy a transaction runs against. All bindings share State.
type Context struct {
	Now    uint64
	State  *state.State
	Params *params.Params
	Token  *token.Token
	Staker *staker.Staker

	meta map[string][]byte
}

func (c *Context) setMeta(key []byte, val []byte) {
	if c.meta == nil {
		c.meta = make(map[string][]byte)
	}
	c.meta[string(key)] = val
}
