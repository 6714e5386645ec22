// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pstake

// well-known native contract addresses.
var (
	StakerAddress = BytesToAddress([]byte("PooledStaking"))
	ParamsAddress = BytesToAddress([]byte("Params"))
	TokenAddress  = BytesToAddress([]byte("Token"))
)

// default values of governance parameters.
// MinStake and MinUnstake are whole tokens, UnstakeLockTime is in seconds.
const (
	InitialMaxExposure     = 10
	InitialMinStake        = 20
	InitialMinUnstake      = 20
	InitialUnstakeLockTime = 90 * 24 * 60 * 60
)
