// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/veilchain/veil/api/events"
	"github.com/veilchain/veil/api/ledgerapi"
	"github.com/veilchain/veil/api/utils"
	"github.com/veilchain/veil/eventdb"
	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/ledger"
	"github.com/veilchain/veil/metrics"
)

type Options struct {
	AllowedOrigins string
	EventsLimit    uint64
	PprofOn        bool
	EnableMetrics  bool
}

// New assembles the api router.
func New(
	ldgr *ledger.Ledger,
	eng fhe.Engine,
	eventDB *eventdb.EventDB,
	now func() uint64,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	lapi := ledgerapi.New(ldgr, eng, now)
	lapi.Mount(router, "/accounts")
	lapi.MountLedger(router, "/ledger")
	lapi.MountReveal(router, "/reveal")

	events.New(eventDB, opts.EventsLimit).
		Mount(router, "/events")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
		router.Path("/metrics").Methods(http.MethodGet).Handler(metrics.HTTPHandler())
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = utils.WriteJSON(w, utils.M{"error": "not found"})
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handler)

	return handler.ServeHTTP
}
