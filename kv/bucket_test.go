// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errors.New("not found")
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}
func (m mem) IsNotFound(err error) bool {
	return err != nil && err.Error() == "not found"
}

func (m mem) Len() int     { return len(m) }
func (m mem) Write() error { return nil }

func TestBucket_GetterGet(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket(""), "k2", "v2"},
		{Bucket("k"), "k1", ""},
		{Bucket("k"), "1", "v1"},
		{Bucket("k"), "2", "v2"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		got, _ := tt.b.NewGetter(m).Get([]byte(tt.key))
		assert.Equal(t, tt.want, string(got), "bucket %q key %q", tt.b, tt.key)
	}
}

func TestBucket_GetterHas(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want bool
	}{
		{Bucket(""), "k1", true},
		{Bucket(""), "k2", true},
		{Bucket("k"), "k1", false},
		{Bucket("k"), "1", true},
		{Bucket("k"), "2", true},
		{Bucket("k1"), "", true},
	}
	for _, tt := range tests {
		got, _ := tt.b.NewGetter(m).Has([]byte(tt.key))
		assert.Equal(t, tt.want, got, "bucket %q key %q", tt.b, tt.key)
	}
}

func TestBucket_Putter(t *testing.T) {
	m := mem{}
	p := Bucket("s").NewPutter(m)

	assert.NoError(t, p.Put([]byte("k1"), []byte("v1")))
	assert.Equal(t, mem{"sk1": "v1"}, m)

	assert.NoError(t, p.Delete([]byte("k1")))
	assert.Empty(t, m)

	bulk := Bucket("m").NewBulk(m)
	assert.NoError(t, bulk.Put([]byte("x"), []byte("y")))
	assert.Equal(t, 1, bulk.Len())
	assert.NoError(t, bulk.Write())
	assert.Equal(t, mem{"mx": "y"}, m)
}

func TestBucket_Range(t *testing.T) {
	r := Bucket("e").Range(nil)
	assert.Equal(t, []byte("e"), r.Start)
	assert.Equal(t, []byte("f"), r.Limit)

	r = Bucket("e").Range([]byte{0x01, 0xff})
	assert.Equal(t, []byte{'e', 0x01, 0xff}, r.Start)
	assert.Equal(t, []byte{'e', 0x02}, r.Limit)

	assert.Nil(t, prefixLimit([]byte{0xff, 0xff}))
}
