// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/builtin/token"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

// Builtin contracts binding.
var (
	Params = &paramsContract{pstake.ParamsAddress}
	Token  = &tokenContract{pstake.TokenAddress}
	Staker = &stakerContract{pstake.StakerAddress}
)

type (
	paramsContract struct{ Address pstake.Address }
	tokenContract  struct{ Address pstake.Address }
	stakerContract struct{ Address pstake.Address }
)

func (p *paramsContract) Native(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (t *tokenContract) Native(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

// Native binds the staker to state, with params and token bound to the same state.
func (s *stakerContract) Native(state *state.State, checker access.Checker) *staker.Staker {
	return staker.New(s.Address, state, Params.Native(state), Token.Native(state), checker)
}
