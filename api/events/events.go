// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events serves the plaintext event log.
package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/veilchain/veil/api/utils"
	"github.com/veilchain/veil/eventdb"
	"github.com/veilchain/veil/veil"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

// New creates the handler. limit caps the number of events a single query
// may return; a request asking for more is a bad request.
func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db:    db,
		limit: limit,
	}
}

func parseUintQuery(req *http.Request, name string) (uint64, error) {
	v := req.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	var filter eventdb.Filter

	if p := req.URL.Query().Get("principal"); p != "" {
		addr, err := veil.ParseAddress(p)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "principal"))
		}
		filter.Principal = &addr
	}
	if k := req.URL.Query().Get("kind"); k != "" {
		switch kind := eventdb.Kind(k); kind {
		case eventdb.KindClaimed, eventdb.KindStaked, eventdb.KindUnstaked, eventdb.KindInterestClaimed:
			filter.Kind = kind
		default:
			return nil, utils.BadRequest(errors.New("kind: unknown event kind"))
		}
	}
	var err error
	if filter.From, err = parseUintQuery(req, "from"); err != nil {
		return nil, err
	}
	if filter.To, err = parseUintQuery(req, "to"); err != nil {
		return nil, err
	}
	if filter.Limit, err = parseUintQuery(req, "limit"); err != nil {
		return nil, err
	}
	if filter.Limit > e.limit {
		return nil, utils.BadRequest(errors.New("limit: exceeds maximum"))
	}
	if filter.Limit == 0 {
		filter.Limit = e.limit
	}
	return &filter, nil
}

func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	evs, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, evs)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
}
