// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/pooledstaking/pstake/pstake"
)

func RandomHash() pstake.Bytes32 {
	var b32 pstake.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() (addr pstake.Address) {
	rand.Read(addr[:])
	return
}

func RandAddresses(n int) []pstake.Address {
	addrs := make([]pstake.Address, 0, n)
	for range n {
		addrs = append(addrs, RandAddress())
	}
	return addrs
}
