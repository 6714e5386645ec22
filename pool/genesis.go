// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/pstake"
)

// ErrInitialized is returned by Genesis when the store was already initialized.
var ErrInitialized = errors.New("pool already initialized")

// Genesis is the initial token distribution and parameter set.
type Genesis struct {
	Balances map[pstake.Address]*uint256.Int
	Params   map[params.Key]*uint256.Int
}

// Initialized reports whether Genesis has been committed.
func (p *Pool) Initialized() (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return metaBucket.NewGetter(p.db).Has(genesisKey)
}

// Genesis mints the initial balances and sets parameters. It can be applied once.
func (p *Pool) Genesis(g *Genesis) (*Receipt, error) {
	return p.Execute("genesis", func(ctx *Context) error {
		done, err := metaBucket.NewGetter(p.db).Has(genesisKey)
		if err != nil {
			return err
		}
		if done {
			return ErrInitialized
		}
		for key, value := range g.Params {
			if err := ctx.Params.Set(key, value); err != nil {
				return errors.WithMessagef(err, "param %v", key)
			}
		}
		for addr, balance := range g.Balances {
			if balance == nil || balance.IsZero() {
				continue
			}
			if err := ctx.Token.Mint(addr, balance); err != nil {
				return errors.WithMessagef(err, "balance of %v", addr)
			}
		}
		ctx.setMeta(genesisKey, []byte{1})
		return nil
	})
}
