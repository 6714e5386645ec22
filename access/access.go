// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access provides the role predicates checked by staking operations.
package access

import (
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/pstake"
)

// Role is a capability a caller may hold.
type Role uint8

const (
	Member Role = iota
	Internal
	Governance
)

func (r Role) String() string {
	switch r {
	case Member:
		return "member"
	case Internal:
		return "internal"
	case Governance:
		return "governance"
	}
	return "unknown"
}

// ParseRole parses the lower case role name.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{Member, Internal, Governance} {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Checker answers role questions about a caller.
type Checker interface {
	IsMember(addr pstake.Address) bool
	IsInternal(addr pstake.Address) bool
	IsGovernance(addr pstake.Address) bool
}

// Has reports whether addr holds role according to c.
func Has(c Checker, role Role, addr pstake.Address) bool {
	switch role {
	case Member:
		return c.IsMember(addr)
	case Internal:
		return c.IsInternal(addr)
	case Governance:
		return c.IsGovernance(addr)
	}
	return false
}

// Require returns an Unauthorized revert unless addr holds role.
func Require(c Checker, role Role, addr pstake.Address) error {
	if c == nil || !Has(c, role, addr) {
		return reverts.New(reverts.Unauthorized, "%v is not %v", addr, role)
	}
	return nil
}
