// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"sort"
	"sync"

	"github.com/pooledstaking/pstake/pstake"
)

var _ Checker = (*List)(nil)

// List is an in-memory allow-list Checker. It is safe for concurrent use.
type List struct {
	mu    sync.RWMutex
	roles map[Role]map[pstake.Address]struct{}
}

// NewList creates an empty list.
func NewList() *List {
	return &List{roles: make(map[Role]map[pstake.Address]struct{})}
}

// Grant gives role to the addresses.
func (l *List) Grant(role Role, addrs ...pstake.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.roles[role]
	if !ok {
		set = make(map[pstake.Address]struct{})
		l.roles[role] = set
	}
	for _, addr := range addrs {
		set[addr] = struct{}{}
	}
}

// Revoke removes role from the addresses.
func (l *List) Revoke(role Role, addrs ...pstake.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, addr := range addrs {
		delete(l.roles[role], addr)
	}
}

// Members returns holders of role, sorted.
func (l *List) Members(role Role) []pstake.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()

	addrs := make([]pstake.Address, 0, len(l.roles[role]))
	for addr := range l.roles[role] {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].String() < addrs[j].String()
	})
	return addrs
}

func (l *List) has(role Role, addr pstake.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.roles[role][addr]
	return ok
}

func (l *List) IsMember(addr pstake.Address) bool     { return l.has(Member, addr) }
func (l *List) IsInternal(addr pstake.Address) bool   { return l.has(Internal, addr) }
func (l *List) IsGovernance(addr pstake.Address) bool { return l.has(Governance, addr) }
