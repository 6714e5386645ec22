// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"time"

	"github.com/pooledstaking/pstake/builtin/staker/actions"
)

// Source is the ledger view health is derived from.
type Source interface {
	Now() uint64
	LastSeq() uint64
	PendingActions(offset, limit uint64) ([]*actions.Action, uint64, error)
}

type Status struct {
	Healthy        bool   `json:"healthy"`
	LastSeq        uint64 `json:"lastSeq"`
	PendingActions uint64 `json:"pendingActions"`
	// seconds the head of the queue has been waiting, absent when the queue is empty
	OldestPendingAge *uint64 `json:"oldestPendingAge,omitempty"`
}

// Health reports a ledger unhealthy when settlement has stalled, i.e. the oldest
// queued action waited longer than the allowed age.
type Health struct {
	src           Source
	maxPendingAge time.Duration
}

func New(src Source, maxPendingAge time.Duration) *Health {
	return &Health{src: src, maxPendingAge: maxPendingAge}
}

// MaxPendingAge returns the configured limit, zero when stalls are never reported.
func (h *Health) MaxPendingAge() time.Duration {
	return h.maxPendingAge
}

func (h *Health) Status(maxPendingAge time.Duration) (*Status, error) {
	head, total, err := h.src.PendingActions(0, 1)
	if err != nil {
		return nil, err
	}
	status := &Status{
		Healthy:        true,
		LastSeq:        h.src.LastSeq(),
		PendingActions: total,
	}
	if len(head) == 0 {
		return status, nil
	}

	var age uint64
	if now := h.src.Now(); now > head[0].PushedAt {
		age = now - head[0].PushedAt
	}
	status.OldestPendingAge = &age
	if maxPendingAge > 0 && time.Duration(age)*time.Second > maxPendingAge {
		status.Healthy = false
	}
	return status, nil
}
