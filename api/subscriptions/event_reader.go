// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/logdb"
)

type eventReader struct {
	db     *logdb.LogDB
	filter *logdb.EventFilter
	pos    uint64 // seq of the last delivered event
	batch  uint64
}

func newEventReader(db *logdb.LogDB, pos uint64, filter *logdb.EventFilter, batch uint64) *eventReader {
	return &eventReader{db: db, filter: filter, pos: pos, batch: batch}
}

// Read returns up to batch events committed after the current position, and whether
// more may be immediately available.
func (er *eventReader) Read(ctx context.Context) ([]*api.Event, bool, error) {
	filter := *er.filter
	filter.Range = &logdb.Range{Unit: logdb.Seq, From: er.pos + 1}
	filter.Options = &logdb.Options{Limit: er.batch}
	filter.Order = logdb.ASC

	events, err := er.db.FilterEvents(ctx, &filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]*api.Event, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, api.ConvertEvent(ev))
		er.pos = ev.Seq
	}
	return msgs, uint64(len(events)) == er.batch, nil
}
