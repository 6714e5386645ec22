// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func (e *Events) filter(ctx context.Context, ef *api.EventFilter) ([]*api.Event, error) {
	filter, err := ef.Convert()
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	events, err := e.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*api.Event, len(events))
	for i, ev := range events {
		out[i] = api.ConvertEvent(ev)
	}
	return out, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter api.EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", uint64(math.MaxInt64)))
	}
	if filter.Options == nil {
		// one more than the limit, to detect oversized results
		filter.Options = &api.Options{
			Offset: 0,
			Limit:  e.limit + 1,
		}
	}

	events, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if len(events) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) handleSum(w http.ResponseWriter, req *http.Request) error {
	var ef api.EventFilter
	if err := utils.ParseJSON(req.Body, &ef); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	filter, err := ef.Convert()
	if err != nil {
		return utils.BadRequest(err)
	}
	sum, err := e.db.SumEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, api.ConvertEventSum(sum))
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("/sum").
		Methods(http.MethodPost).
		Name("POST /events/sum").
		HandlerFunc(utils.WrapHandlerFunc(e.handleSum))
}
