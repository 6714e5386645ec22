// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pstake

import (
	"hash"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// NewBlake2b returns a blake2b-256 hasher.
func NewBlake2b() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

// Blake2b hashes the concatenation of data. Storage slots of mappings and
// arrays are derived with it.
func Blake2b(data ...[]byte) (h Bytes32) {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	w := NewBlake2b()
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(h[:0])
	return
}
