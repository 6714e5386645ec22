// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/builtin/staker/actions"
)

type fakeSource struct {
	now     uint64
	seq     uint64
	pending []*actions.Action
	err     error
}

func (f *fakeSource) Now() uint64     { return f.now }
func (f *fakeSource) LastSeq() uint64 { return f.seq }
func (f *fakeSource) PendingActions(offset, limit uint64) ([]*actions.Action, uint64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	end := min(offset+limit, uint64(len(f.pending)))
	return f.pending[offset:end], uint64(len(f.pending)), nil
}

func TestHealthStatus(t *testing.T) {
	src := &fakeSource{now: 1000, seq: 7}
	h := New(src, time.Minute)
	assert.Equal(t, time.Minute, h.MaxPendingAge())

	status, err := h.Status(h.MaxPendingAge())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(7), status.LastSeq)
	assert.Nil(t, status.OldestPendingAge)

	src.pending = []*actions.Action{{ID: 1, PushedAt: 950}, {ID: 2, PushedAt: 990}}
	status, err = h.Status(h.MaxPendingAge())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(2), status.PendingActions)
	require.NotNil(t, status.OldestPendingAge)
	assert.Equal(t, uint64(50), *status.OldestPendingAge)

	src.now = 1011
	status, err = h.Status(h.MaxPendingAge())
	require.NoError(t, err)
	assert.False(t, status.Healthy)

	status, err = h.Status(0)
	require.NoError(t, err)
	assert.True(t, status.Healthy, "zero disables the stall check")
}

func TestHealthSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeSource{err: boom}, 0).Status(0)
	assert.Equal(t, boom, err)
}
