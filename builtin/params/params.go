// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

// Key enumerates governance parameters.
type Key uint8

const (
	MinStake Key = iota
	MaxExposure
	MinUnstake
	UnstakeLockTime
)

var keyNames = [...]string{
	MinStake:        "MinStake",
	MaxExposure:     "MaxExposure",
	MinUnstake:      "MinUnstake",
	UnstakeLockTime: "UnstakeLockTime",
}

// Keys returns all known keys in id order.
func Keys() []Key {
	return []Key{MinStake, MaxExposure, MinUnstake, UnstakeLockTime}
}

func (k Key) Valid() bool {
	return int(k) < len(keyNames)
}

func (k Key) String() string {
	if !k.Valid() {
		return "Key(" + strconv.Itoa(int(k)) + ")"
	}
	return keyNames[k]
}

// Default returns the value used until governance sets the key.
func (k Key) Default() *uint256.Int {
	switch k {
	case MinStake:
		return pstake.Ether(pstake.InitialMinStake)
	case MaxExposure:
		return uint256.NewInt(pstake.InitialMaxExposure)
	case MinUnstake:
		return pstake.Ether(pstake.InitialMinUnstake)
	case UnstakeLockTime:
		return uint256.NewInt(pstake.InitialUnstakeLockTime)
	}
	return new(uint256.Int)
}

func (k Key) slot() pstake.Bytes32 {
	return pstake.Uint64ToBytes32(uint64(k))
}

// KeyOf returns the key with numeric id.
func KeyOf(id uint64) (Key, error) {
	if id >= uint64(len(keyNames)) {
		return 0, reverts.New(reverts.UnknownParameter, "parameter id %d", id)
	}
	return Key(id), nil
}

// ParseKey accepts a key name (case insensitive) or its numeric id.
func ParseKey(s string) (Key, error) {
	for i, name := range keyNames {
		if strings.EqualFold(name, s) {
			return Key(i), nil
		}
	}
	if id, err := strconv.ParseUint(s, 10, 8); err == nil {
		return KeyOf(id)
	}
	return 0, reverts.New(reverts.UnknownParameter, "parameter %q", s)
}

// Params binder of `Params` contract.
type Params struct {
	addr  pstake.Address
	state *state.State
}

func New(addr pstake.Address, state *state.State) *Params {
	return &Params{addr, state}
}

// Get native way to get param.
func (p *Params) Get(key Key) (*uint256.Int, error) {
	v, _, err := p.get(key)
	return v, err
}

func (p *Params) get(key Key) (*uint256.Int, bool, error) {
	if !key.Valid() {
		return nil, false, reverts.New(reverts.UnknownParameter, "%v", key)
	}
	var (
		v   uint256.Int
		set bool
	)
	err := p.state.DecodeStorage(p.addr, key.slot(), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		set = true
		return rlp.DecodeBytes(raw, &v)
	})
	if err != nil {
		return nil, false, err
	}
	if !set {
		return key.Default(), false, nil
	}
	return &v, true, nil
}

// Set native way to set param. A zero value is stored as zero, not reset to default.
func (p *Params) Set(key Key, value *uint256.Int) error {
	if !key.Valid() {
		return reverts.New(reverts.UnknownParameter, "%v", key)
	}
	return p.state.EncodeStorage(p.addr, key.slot(), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Entry is a parameter with its current value.
type Entry struct {
	Key       Key
	Value     *uint256.Int
	IsDefault bool
}

// All returns every parameter in key order.
func (p *Params) All() ([]Entry, error) {
	entries := make([]Entry, 0, len(keyNames))
	for _, key := range Keys() {
		v, set, err := p.get(key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: v, IsDefault: !set})
	}
	return entries, nil
}
