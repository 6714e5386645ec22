// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pstake

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// TokenDecimals is the number of decimals of the staked token.
const TokenDecimals = 18

var oneToken = uint256.NewInt(1e18)

// Ether returns n whole tokens expressed in base units.
func Ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), oneToken)
}

// MustParseAmount parses a decimal base-unit amount, panic on error.
func MustParseAmount(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

// ParseAmount parses a decimal or 0x-prefixed hex base-unit amount.
func ParseAmount(s string) (*uint256.Int, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

// ParseUnits parses an amount written in whole tokens, such as "12.5", into base units.
// Fractions finer than one base unit are rejected.
func ParseUnits(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative amount %s", s)
	}
	base := d.Shift(TokenDecimals)
	if !base.Equal(base.Truncate(0)) {
		return nil, fmt.Errorf("amount %s has more than %d decimals", s, TokenDecimals)
	}
	v, overflow := uint256.FromBig(base.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount %s overflows", s)
	}
	return v, nil
}

// FormatUnits renders a base-unit amount in whole tokens without trailing zeros.
func FormatUnits(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v.ToBig(), -TokenDecimals).String()
}
