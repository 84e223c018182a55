package adminapi

import (
	"github.com/araddon/dateparse"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	"github.com/doodhdairy/dairyledger/internal/reports"
	"github.com/doodhdairy/dairyledger/internal/snapshot"
	"github.com/doodhdairy/dairyledger/pkg/common"
)

var (
	ledgerSvc   *ledger.Service
	reportsSvc  *reports.Service
	snapshotSvc *snapshot.Service
)

// Init wires the core services into the HTTP surface and registers all
// routes. Must be called after webserver.Init.
func Init(l *ledger.Service, r *reports.Service, sn *snapshot.Service) {
	ledgerSvc = l
	reportsSvc = r
	snapshotSvc = sn

	registerLedgerRoutes()
	registerReportRoutes()
	registerSnapshotRoutes()
	registerProductRoutes()
}

// normalizeDate accepts flexible date input and returns the canonical
// YYYY-MM-DD form, or the fallback when empty.
func normalizeDate(raw, fallback string) (string, bool) {
	if raw == "" {
		return fallback, fallback != ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return "", false
	}
	return t.Format(common.DateLayout), true
}
