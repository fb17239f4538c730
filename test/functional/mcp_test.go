package functional_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/ecmpro/changeledger/internal/testserver"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type rpcError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func rpcCall(t *testing.T, ts *testserver.TestServer, method string, params any) rpcResponse {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/mcp", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(bodyBytes))
	}

	var result rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// initializeSession performs the MCP initialize handshake
func initializeSession(t *testing.T, ts *testserver.TestServer) {
	t.Helper()

	resp := rpcCall(t, ts, "initialize", map[string]any{
		"protocolVersion": "2025-11-25",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "1.0.0",
		},
	})
	require.Nil(t, resp.Error, "Initialize failed: %v", resp.Error)
}

type toolCallResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// callTool makes a tools/call RPC call and unwraps the result
func callTool(t *testing.T, ts *testserver.TestServer, toolName string, args any) json.RawMessage {
	t.Helper()

	result := rawCallTool(t, ts, toolName, args)
	require.False(t, result.IsError, "Tool error: %s", result.Content[0].Text)
	require.NotEmpty(t, result.Content)

	return json.RawMessage(result.Content[0].Text)
}

// callToolExpectError makes a tools/call RPC call that must fail
func callToolExpectError(t *testing.T, ts *testserver.TestServer, toolName string, args any) string {
	t.Helper()

	result := rawCallTool(t, ts, toolName, args)
	require.True(t, result.IsError, "Expected tool %s to fail", toolName)
	require.NotEmpty(t, result.Content)
	return result.Content[0].Text
}

func rawCallTool(t *testing.T, ts *testserver.TestServer, toolName string, args any) toolCallResult {
	t.Helper()

	params := map[string]any{
		"name": toolName,
	}
	if args != nil {
		params["arguments"] = args
	}

	resp := rpcCall(t, ts, "tools/call", params)
	require.Nil(t, resp.Error, "RPC error: %v", resp.Error)

	var result toolCallResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	return result
}

type draftState struct {
	Stage  int             `json:"stage"`
	Record json.RawMessage `json:"record"`
}

type recordEnvelope struct {
	Record struct {
		ID            string   `json:"id"`
		DocNumber     string   `json:"docNumber"`
		Title         string   `json:"title"`
		Status        string   `json:"status"`
		Source        string   `json:"source"`
		Category      []string `json:"category"`
		Reviewers     []any    `json:"reviewers"`
		AffectedFiles []any    `json:"affectedFiles"`
	} `json:"record"`
}

func TestFunctional_WizardWalkthrough(t *testing.T) {
	ts := testserver.New(t)
	initializeSession(t, ts)

	start := callTool(t, ts, "start_ecn", nil)
	var state draftState
	require.NoError(t, json.Unmarshal(start, &state))
	require.Equal(t, 1, state.Stage)

	callTool(t, ts, "update_field", map[string]any{"field": "title", "value": "Terminal plating thickness"})
	callTool(t, ts, "update_field", map[string]any{"field": "source", "value": "Customer Request"})
	callTool(t, ts, "update_field", map[string]any{"field": "category", "value": []string{"Material", "Process"}})
	callTool(t, ts, "update_field", map[string]any{"field": "beforeChange", "value": "3um tin"})
	callTool(t, ts, "update_field", map[string]any{"field": "afterChange", "value": "5um tin"})

	for i := 0; i < 6; i++ {
		advanced := callTool(t, ts, "advance_stage", nil)
		require.NoError(t, json.Unmarshal(advanced, &state))
	}
	require.Equal(t, 7, state.Stage)

	submitted := callTool(t, ts, "submit_ecn", nil)
	var env recordEnvelope
	require.NoError(t, json.Unmarshal(submitted, &env))
	require.Equal(t, "COMPLETED", env.Record.Status)
	require.Equal(t, "Terminal plating thickness", env.Record.Title)
	require.NotEmpty(t, env.Record.DocNumber)
	require.Len(t, env.Record.Reviewers, 2)
	require.Len(t, env.Record.AffectedFiles, 5)

	// Wizard reset to a fresh draft after submission.
	draft := callTool(t, ts, "get_draft", nil)
	require.NoError(t, json.Unmarshal(draft, &state))
	require.Equal(t, 1, state.Stage)

	// The committed record is in the ledger.
	got := callTool(t, ts, "get_record", map[string]any{"doc_number": env.Record.DocNumber})
	var fetched recordEnvelope
	require.NoError(t, json.Unmarshal(got, &fetched))
	require.Equal(t, env.Record.ID, fetched.Record.ID)

	// And the rendered document is downloadable over plain HTTP.
	resp, err := http.Get(ts.Server.URL + "/records/" + env.Record.DocNumber + "/document")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(doc), "Terminal plating thickness")
}

func TestFunctional_SubmitGuards(t *testing.T) {
	ts := testserver.New(t)
	initializeSession(t, ts)

	callTool(t, ts, "start_ecn", nil)

	// Stage 1: submission refused.
	msg := callToolExpectError(t, ts, "submit_ecn", nil)
	require.Contains(t, msg, "NOT_FINAL_STAGE")

	for i := 0; i < 6; i++ {
		callTool(t, ts, "advance_stage", nil)
	}

	// Stage 7 without a title: still refused, stage unchanged.
	msg = callToolExpectError(t, ts, "submit_ecn", nil)
	require.Contains(t, msg, "TITLE_REQUIRED")

	draft := callTool(t, ts, "get_draft", nil)
	var state draftState
	require.NoError(t, json.Unmarshal(draft, &state))
	require.Equal(t, 7, state.Stage)
}

func TestFunctional_DraftCollections(t *testing.T) {
	ts := testserver.New(t)
	initializeSession(t, ts)

	callTool(t, ts, "start_ecn", nil)

	added := callTool(t, ts, "add_affected_file", map[string]any{"name": "SIP"})
	var addResult struct {
		Added  bool `json:"added"`
		Record struct {
			AffectedFiles []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"affectedFiles"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(added, &addResult))
	require.True(t, addResult.Added)
	require.Len(t, addResult.Record.AffectedFiles, 6)

	callTool(t, ts, "set_file_status", map[string]any{"index": 5, "status": "UPDATED"})

	callTool(t, ts, "add_attachment", map[string]any{
		"stage":     3,
		"file_name": "feasibility-report.pdf",
		"file_type": "application/pdf",
	})

	msg := callToolExpectError(t, ts, "add_attachment", map[string]any{
		"stage":     9,
		"file_name": "out-of-range.pdf",
	})
	require.Contains(t, msg, "INVALID_STAGE")

	stage3 := callTool(t, ts, "list_stage_attachments", map[string]any{"stage": 3})
	var byStage struct {
		Stage       int `json:"stage"`
		Attachments []struct {
			FileName string `json:"fileName"`
		} `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal(stage3, &byStage))
	require.Len(t, byStage.Attachments, 1)
	require.Equal(t, "feasibility-report.pdf", byStage.Attachments[0].FileName)

	stage1 := callTool(t, ts, "list_stage_attachments", map[string]any{"stage": 1})
	require.NoError(t, json.Unmarshal(stage1, &byStage))
	require.Empty(t, byStage.Attachments)

	msg = callToolExpectError(t, ts, "list_stage_attachments", map[string]any{"stage": 0})
	require.Contains(t, msg, "INVALID_STAGE")

	draft := callTool(t, ts, "get_draft", nil)
	var env struct {
		Record struct {
			AffectedFiles []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"affectedFiles"`
			Attachments []struct {
				Stage    int    `json:"stage"`
				FileName string `json:"fileName"`
			} `json:"attachments"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(draft, &env))
	require.Equal(t, "UPDATED", env.Record.AffectedFiles[5].Status)
	require.Len(t, env.Record.Attachments, 1)
	require.Equal(t, 3, env.Record.Attachments[0].Stage)
}

func TestFunctional_LedgerLifecycle(t *testing.T) {
	ts := testserver.New(t)
	initializeSession(t, ts)

	submitRecord(t, ts, "First notice")
	second := submitRecord(t, ts, "Second notice")

	list := callTool(t, ts, "list_records", nil)
	var listed struct {
		Records []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(list, &listed))
	require.Len(t, listed.Records, 2)
	require.Equal(t, "Second notice", listed.Records[0].Title)

	// Partial update keeps unmentioned fields.
	updated := callTool(t, ts, "update_record", map[string]any{
		"id":     second.Record.ID,
		"fields": map[string]any{"status": "REJECTED"},
	})
	var env recordEnvelope
	require.NoError(t, json.Unmarshal(updated, &env))
	require.Equal(t, "REJECTED", env.Record.Status)
	require.Equal(t, "Second notice", env.Record.Title)

	msg := callToolExpectError(t, ts, "update_record", map[string]any{
		"id":     second.Record.ID,
		"fields": map[string]any{"docNumber": "ECN-19700101-000"},
	})
	require.Contains(t, msg, "IMMUTABLE_FIELD")

	summary := callTool(t, ts, "ledger_summary", nil)
	var counts struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
		Rejected  int `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(summary, &counts))
	require.Equal(t, 2, counts.Total)
	require.Equal(t, 1, counts.Completed)
	require.Equal(t, 1, counts.Rejected)

	callTool(t, ts, "delete_record", map[string]any{"id": second.Record.ID})
	msg = callToolExpectError(t, ts, "get_record", map[string]any{"id": second.Record.ID})
	require.Contains(t, msg, "RECORD_NOT_FOUND")
}

func TestFunctional_SnapshotRoundTrip(t *testing.T) {
	ts := testserver.New(t)
	initializeSession(t, ts)

	submitRecord(t, ts, "Snapshot subject")

	exported := callTool(t, ts, "export_snapshot", nil)
	var snap struct {
		FileName string `json:"file_name"`
		Content  string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(exported, &snap))
	require.Contains(t, snap.FileName, "ECN_Ledger_")

	callTool(t, ts, "delete_record", map[string]any{"id": firstRecordID(t, ts)})

	imported := callTool(t, ts, "import_snapshot", map[string]any{"content": snap.Content})
	var result struct {
		Imported int `json:"imported"`
	}
	require.NoError(t, json.Unmarshal(imported, &result))
	require.Equal(t, 1, result.Imported)

	// Malformed snapshots leave the ledger untouched.
	msg := callToolExpectError(t, ts, "import_snapshot", map[string]any{"content": `{"not":"an array"}`})
	require.NotEmpty(t, msg)

	list := callTool(t, ts, "list_records", nil)
	var listed struct {
		Records []any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(list, &listed))
	require.Len(t, listed.Records, 1)
}

func submitRecord(t *testing.T, ts *testserver.TestServer, title string) recordEnvelope {
	t.Helper()

	callTool(t, ts, "start_ecn", nil)
	callTool(t, ts, "update_field", map[string]any{"field": "title", "value": title})
	for i := 0; i < 6; i++ {
		callTool(t, ts, "advance_stage", nil)
	}
	submitted := callTool(t, ts, "submit_ecn", nil)

	var env recordEnvelope
	require.NoError(t, json.Unmarshal(submitted, &env))
	return env
}

func firstRecordID(t *testing.T, ts *testserver.TestServer) string {
	t.Helper()

	list := callTool(t, ts, "list_records", nil)
	var listed struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(list, &listed))
	require.NotEmpty(t, listed.Records)
	return listed.Records[0].ID
}
