// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/cache"
)

func M(a ...any) []any {
	return a
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := cache.NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(string) + "!", nil
	}

	for range 3 {
		v, err := c.GetOrLoad("a", loader)
		require.NoError(t, err)
		assert.Equal(t, "a!", v)
	}
	assert.Equal(t, 1, loads)

	changed, hit, miss := c.Stats().Stats()
	assert.True(t, changed)
	assert.Equal(t, M(int64(2), int64(1)), M(hit, miss))

	boom := errors.New("boom")
	_, err = c.GetOrLoad("b", func(any) (any, error) { return nil, boom })
	assert.Equal(t, boom, err)
	assert.False(t, c.Contains("b"))

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRUInvalidSize(t *testing.T) {
	_, err := cache.NewLRU(0)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	var s cache.Stats
	changed, _, _ := s.Stats()
	assert.False(t, changed)

	s.Hit()
	s.Miss()
	changed, hit, miss := s.Stats()
	assert.True(t, changed)
	assert.Equal(t, M(int64(1), int64(1)), M(hit, miss))

	changed, _, _ = s.Stats()
	assert.False(t, changed)
}
