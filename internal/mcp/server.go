package mcp

import (
	"context"
	"log/slog"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// WizardService defines the draft-wizard operations needed by MCP.
type WizardService interface {
	Stage() int
	Draft() *ecn.Record
	Advance() int
	Retreat() int
	UpdateField(name string, value any) error
	AddAttachment(stage int, fileName, fileType string) (ecn.Attachment, error)
	RemoveAttachment(id string) error
	StageAttachments(stage int) []ecn.Attachment
	AddFile(name string) bool
	RemoveFile(index int) error
	SetFileStatus(index int, status ecn.FileStatus) error
	AddReviewer() ecn.Reviewer
	RemoveReviewer(id string) error
	UpdateReviewer(id, field, value string) error
	Submit(ctx context.Context) (*ecn.Record, error)
	Reset() *ecn.Record
}

// LedgerService defines the ledger operations needed by MCP.
type LedgerService interface {
	Get(ctx context.Context, id string) (*ecn.Record, error)
	GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error)
	List(ctx context.Context) ([]ecn.Record, error)
	Update(ctx context.Context, id string, patch map[string]any) (*ecn.Record, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (ecn.Summary, error)
	ExportSnapshot(ctx context.Context) ([]byte, error)
	ImportSnapshot(ctx context.Context, data []byte) (int, error)
}

// Services contains the domain services needed by MCP.
type Services struct {
	Wizard WizardService
	Ledger LedgerService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "changeledger",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
