package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ecmpro/changeledger/internal/domain/ledger"
	"github.com/ecmpro/changeledger/internal/domain/wizard"
	"github.com/ecmpro/changeledger/internal/mcp"
	"github.com/ecmpro/changeledger/internal/sqlite"
	"github.com/ecmpro/changeledger/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer hosts the full HTTP surface over a per-test in-memory
// sqlite database.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Ledger *ledger.Service
	Wizard *wizard.Engine
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ledgerRepo := sqlite.NewLedgerRepository(db)
	ledgerSvc := ledger.NewService(ledgerRepo, nil)
	engine := wizard.NewEngine(ledgerSvc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Wizard: engine,
			Ledger: ledgerSvc,
		},
	})

	server := httptest.NewServer(transport.NewServer(mcp.NewHTTPHandler(mcpServer, nil), ledgerSvc))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Ledger: ledgerSvc,
		Wizard: engine,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}
