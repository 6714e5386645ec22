// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	mathrand "math/rand/v2"

	"github.com/holiman/uint256"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandAmount returns a random amount in [1, max] whole tokens, in base units.
func RandAmount(max uint64) *uint256.Int {
	n := mathrand.Uint64N(max) + 1 //#nosec G404
	v := uint256.NewInt(n)
	return v.Mul(v, uint256.NewInt(1e18))
}
