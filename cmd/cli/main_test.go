package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

func newTestAPI(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		seen = append(seen, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, &seen
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLedgerGetPrintsIndentedJSON(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusOK, `{"id":"led-1","balance":"10.00"}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "get", "led-1")
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"id\": \"led-1\",\n  \"balance\": \"10.00\"\n}\n", out)
	require.Len(t, *seen, 1)
	assert.Equal(t, "/api/v1/ledgers/led-1", (*seen)[0].path)
}

func TestLedgerListSendsFilters(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusOK, `[]`)

	_, err := execute(t, "--url", srv.URL, "ledger", "list", "--classification", "party", "--limit", "5")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, "classification=party&limit=5", (*seen)[0].query)
}

func TestLedgerConsistencyFailsOnConflict(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusConflict, `{"consistent":false,"total_debit":"10.00","total_credit":"9.00"}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "consistency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILED")
	assert.Contains(t, out, `"consistent": false`)
}

func TestLedgerConsistencyPasses(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusOK, `{"consistent":true}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "consistency")
	require.NoError(t, err)
	assert.Contains(t, out, "PASSED")
}

func TestVoucherReverseSendsHeaders(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusCreated, `{"id":"v-2"}`)

	_, err := execute(t, "--url", srv.URL, "--user", "accountant-1",
		"voucher", "reverse", "v-1", "--narration", "wrong producer", "--idempotency-key", "rev-1")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/v1/vouchers/v-1/reverse", req.path)
	assert.Equal(t, "rev-1", req.header.Get("Idempotency-Key"))
	assert.Equal(t, "accountant-1", req.header.Get("X-User-ID"))
	assert.Equal(t, "wrong producer", req.body["narration"])
}

func TestTransferCompleteGeneratesIdempotencyKey(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusOK, `{"id":"bt-1","status":"completed"}`)

	_, err := execute(t, "--url", srv.URL, "transfer", "complete", "bt-1")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.NotEmpty(t, (*seen)[0].header.Get("Idempotency-Key"))
}

func TestTransferApplyReadsFile(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusCreated, `{"id":"bt-1"}`)

	path := filepath.Join(t.TempDir(), "batch.json")
	payload := `{"basis":"as_on_date_balance","as_on_date":"2026-03-31","round_down_unit":10,
		"details":[{"producer_id":"p-1","transfer_amount":"120.00","approved":true}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	_, err := execute(t, "--url", srv.URL, "transfer", "apply", "-f", path)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	body := (*seen)[0].body
	assert.Equal(t, "2026-03-31", body["as_on_date"])
	details, ok := body["details"].([]any)
	require.True(t, ok)
	assert.Len(t, details, 1)
}

func TestTransferRetrieveRequiresDate(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusOK, `{}`)

	_, err := execute(t, "--url", srv.URL, "transfer", "retrieve")
	require.Error(t, err)
	assert.Empty(t, *seen)
}

func TestAPIErrorMessage(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusNotFound, `{"error":"not_found","message":"voucher not found"}`)

	_, err := execute(t, "--url", srv.URL, "voucher", "get", "missing")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.True(t, strings.HasSuffix(apiErr.Message, "voucher not found"))
}

func TestTransferEventsRequestsBatchHistory(t *testing.T) {
	srv, seen := newTestAPI(t, http.StatusOK, `[{"id":"e-1","event_type":"bank_transfer.applied"}]`)

	out, err := execute(t, "--url", srv.URL, "transfer", "events", "bt-1", "--limit", "3")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, http.MethodGet, (*seen)[0].method)
	assert.Equal(t, "/api/v1/bank-transfers/bt-1/events", (*seen)[0].path)
	assert.Equal(t, "limit=3", (*seen)[0].query)
	assert.Contains(t, out, "bank_transfer.applied")
}
