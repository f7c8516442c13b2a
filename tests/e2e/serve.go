package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ucampus/refectory/internal/handlers"
	"github.com/ucampus/refectory/internal/logger"
	"github.com/ucampus/refectory/internal/repository"
	"github.com/ucampus/refectory/internal/repository/postgres"
	"github.com/ucampus/refectory/internal/service/ledger"
	"github.com/ucampus/refectory/internal/service/locker"
	"github.com/ucampus/refectory/internal/service/ticket"
	"github.com/ucampus/refectory/internal/testutil"
)

type Services struct {
	LedgerService *ledger.LedgerService
	TicketService *ticket.TicketService
	LockerService *locker.LockerService
	Storage       repository.Storage
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		ledgerService := ledger.NewService(storage)
		ticketService := ticket.NewService(storage)
		lockerService := locker.NewService(storage)

		router := handlers.NewRouter(
			ledgerService,
			ticketService,
			lockerService,
			storage,
			logger.NewNoOpLogger(),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			LedgerService: ledgerService,
			TicketService: ticketService,
			LockerService: lockerService,
			Storage:       storage,
		})
	})
}
