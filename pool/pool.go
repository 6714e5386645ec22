// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool owns the committed staking state. Every mutation runs as one transaction
// under a single writer lock and is either fully committed or discarded.
package pool

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/cache"
	"github.com/pooledstaking/pstake/co"
	"github.com/pooledstaking/pstake/kv"
	"github.com/pooledstaking/pstake/log"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

var logger = log.WithContext("pkg", "pool")

const metaBucket = kv.Bucket("m")

var (
	seqKey     = []byte("seq")
	genesisKey = []byte("genesis")
)

// Options options for creating a pool.
type Options struct {
	CacheSize int            // max staker summaries kept in the read cache
	Clock     func() uint64 // unix seconds, defaults to wall clock
}

// Receipt describes a committed transaction.
type Receipt struct {
	Time      uint64
	StateHash pstake.Bytes32 // digest of the storage changes
	Changes   int
	Events    []*logdb.Event
}

// Pool is the transaction boundary over committed storage.
type Pool struct {
	mu        sync.RWMutex
	db        kv.Store
	logDB     *logdb.LogDB
	checker   access.Checker
	clock     func() uint64
	summaries *cache.LRU
	seq       uint64
	sig       co.Signal
}

// New creates a pool over db. logDB may be nil, in which case events are not persisted.
func New(db kv.Store, logDB *logdb.LogDB, checker access.Checker, opts Options) (*Pool, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.Clock == nil {
		opts.Clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	summaries, err := cache.NewLRU(opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create summary cache")
	}

	p := &Pool{
		db:        db,
		logDB:     logDB,
		checker:   checker,
		clock:     opts.Clock,
		summaries: summaries,
	}

	val, err := metaBucket.NewGetter(db).Get(seqKey)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, errors.Wrap(err, "load event sequence")
		}
	} else {
		p.seq = binary.BigEndian.Uint64(val)
	}
	return p, nil
}

// Now returns the pool clock.
func (p *Pool) Now() uint64 {
	return p.clock()
}

// LastSeq returns the sequence number of the newest committed event.
func (p *Pool) LastSeq() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.seq
}

// NewWaiter returns a waiter woken after each commit.
func (p *Pool) NewWaiter() co.Waiter {
	return p.sig.NewWaiter()
}

// SummaryCacheStats returns hit/miss counters of the summary cache.
func (p *Pool) SummaryCacheStats() *cache.Stats {
	return p.summaries.Stats()
}

func (p *Pool) newContext(st *state.State) *Context {
	return &Context{
		Now:    p.clock(),
		State:  st,
		Params: builtin.Params.Native(st),
		Token:  builtin.Token.Native(st),
		Staker: builtin.Staker.Native(st, p.checker),
	}
}

// Execute runs fn against a fresh working copy of the committed state. If fn succeeds
// the staged changes and the pool's event sequence are written in one batch, otherwise
// nothing is written.
func (p *Pool) Execute(op string, fn func(ctx *Context) error) (*Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	ctx := p.newContext(state.New(p.db))
	if err := fn(ctx); err != nil {
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "reverted"})
		return nil, err
	}

	stage := ctx.State.Stage()
	receipt := &Receipt{
		Time:      ctx.Now,
		StateHash: stage.Hash(),
		Changes:   stage.Len(),
		Events:    p.convertEvents(ctx.Now, ctx.Staker.Events()),
	}
	seq := p.seq + uint64(len(receipt.Events))

	bulk := p.db.Bulk()
	if err := stage.Write(bulk); err != nil {
		return nil, err
	}
	meta := metaBucket.NewPutter(bulk)
	if err := meta.Put(seqKey, binary.BigEndian.AppendUint64(nil, seq)); err != nil {
		return nil, err
	}
	for k, v := range ctx.meta {
		if err := meta.Put([]byte(k), v); err != nil {
			return nil, err
		}
	}
	if err := bulk.Write(); err != nil {
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "failed"})
		return nil, errors.Wrap(err, "commit state")
	}
	p.seq = seq

	if p.logDB != nil && len(receipt.Events) > 0 {
		if err := p.logDB.Insert(receipt.Events); err != nil {
			logger.Error("failed to write events", "op", op, "from", receipt.Events[0].Seq, "to", seq, "err", err)
		}
	}
	p.summaries.Purge()
	p.sig.Broadcast()

	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "committed"})
	metricCommitChanges().Add(int64(receipt.Changes))
	logger.Debug("committed", "op", op, "changes", receipt.Changes, "events", len(receipt.Events), "elapsed", time.Since(start))
	return receipt, nil
}

// View runs fn against the committed state. Changes made by fn are discarded.
func (p *Pool) View(fn func(ctx *Context) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return fn(p.newContext(state.New(p.db)))
}

func (p *Pool) convertEvents(now uint64, events []*staker.Event) []*logdb.Event {
	converted := make([]*logdb.Event, 0, len(events))
	for i, ev := range events {
		converted = append(converted, &logdb.Event{
			Seq:      p.seq + uint64(i) + 1,
			Time:     now,
			Kind:     string(ev.Kind),
			Contract: ev.Contract,
			Staker:   ev.Staker,
			Amount:   ev.Amount,
			Extra:    ev.Extra,
			ActionID: ev.ActionID,
		})
	}
	return converted
}
