package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ecmpro/changeledger/internal/domain/ledger"
	"github.com/ecmpro/changeledger/internal/domain/wizard"
	"github.com/ecmpro/changeledger/internal/mcp"
	"github.com/ecmpro/changeledger/internal/memory"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func newClientSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	ledgerSvc := ledger.NewService(memory.NewLedgerRepository(), nil)
	engine := wizard.NewEngine(ledgerSvc, nil)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Wizard: engine,
			Ledger: ledgerSvc,
		},
	})

	ctx := context.Background()
	t1, t2 := sdkmcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, t1, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, t2, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		clientSession.Close()
		serverSession.Close()
	})

	return clientSession
}

func TestServer_GetDraft(t *testing.T) {
	session := newClientSession(t)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "get_draft",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)

	var state struct {
		Stage  int `json:"stage"`
		Record struct {
			Status    string `json:"status"`
			Reviewers []any  `json:"reviewers"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &state))
	require.Equal(t, 1, state.Stage)
	require.Equal(t, "INITIATED", state.Record.Status)
	require.Len(t, state.Record.Reviewers, 2)
}

func TestServer_DomainErrorsMapToCodes(t *testing.T) {
	session := newClientSession(t)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "submit_ecn",
	})
	require.NoError(t, err)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "NOT_FINAL_STAGE")
}

func TestServer_DocResources(t *testing.T) {
	session := newClientSession(t)
	ctx := context.Background()

	resources, err := session.ListResources(ctx, &sdkmcp.ListResourcesParams{})
	require.NoError(t, err)

	uris := make(map[string]bool)
	for _, res := range resources.Resources {
		uris[res.URI] = true
	}
	require.True(t, uris["ecn://docs/index"])
	require.True(t, uris["ecn://docs/lifecycle"])
	require.True(t, uris["ecn://docs/record-format"])

	read, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{
		URI: "ecn://docs/lifecycle",
	})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Contains(t, read.Contents[0].Text, "Stages move one at a time")
}
