package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/lock"
	"github.com/parkside-eng/ledgerd/internal/models"
	"github.com/parkside-eng/ledgerd/internal/services/ledger"
	"github.com/parkside-eng/ledgerd/internal/storage/ledgerdb"
)

// newTestServer stands up the full HTTP stack on a real embedded store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := common.NewSilentLogger()
	store, err := ledgerdb.NewStore(logger, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	locks := lock.NewMemoryManager()
	t.Cleanup(func() { locks.Close() })

	svc := ledger.NewService(store, locks, logger)
	srv := NewServer(common.NewDefaultConfig(), logger, svc)

	ts := httptest.NewServer(srv.httpSrv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestBankEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var bank models.Bank
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/banks", map[string]string{"name": "First National"}, &bank)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, bank.ID)
	require.Equal(t, "First National", bank.Name)

	// Validation failures come back as a 422 message list
	var errResp ErrorsResponse
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/banks", map[string]string{"name": ""}, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Contains(t, errResp.Errors, models.MsgNameRequired)

	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/banks", map[string]string{"name": "first national"}, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Contains(t, errResp.Errors, models.MsgNameTaken)

	var banks []models.Bank
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/banks", nil, &banks)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, banks, 1)

	var fetched models.Bank
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/banks/"+bank.ID, nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, bank.ID, fetched.ID)

	// Missing record is a client error with the message list shape
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/banks/no-such-bank", nil, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotEmpty(t, errResp.Errors)

	status = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/banks/"+bank.ID, nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, fetched.DeletedAt)
}

func TestAccountEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var bank models.Bank
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/banks", map[string]string{"name": "First National"}, &bank)
	require.Equal(t, http.StatusCreated, status)

	var account models.Account
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/accounts",
		map[string]string{"name": "Checking", "bank_id": bank.ID}, &account)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, bank.ID, account.BankID)
	require.Zero(t, account.BalanceCents)

	var balance struct {
		AccountID    string `json:"account_id"`
		BalanceCents int64  `json:"balance_cents"`
	}
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/accounts/"+account.ID+"/balance", nil, &balance)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, account.ID, balance.AccountID)
	require.Zero(t, balance.BalanceCents)
}

func TestTransactionEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var bank models.Bank
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/banks", map[string]string{"name": "First National"}, &bank)
	require.Equal(t, http.StatusCreated, status)

	var sender, recipient models.Account
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/accounts",
		map[string]string{"name": "Sender", "bank_id": bank.ID}, &sender)
	require.Equal(t, http.StatusCreated, status)
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/accounts",
		map[string]string{"name": "Recipient", "bank_id": bank.ID}, &recipient)
	require.Equal(t, http.StatusCreated, status)

	// Fresh accounts hold nothing, so any positive transfer is rejected
	var errResp ErrorsResponse
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/transactions", map[string]interface{}{
		"sender":           map[string]string{"kind": "Account", "id": sender.ID},
		"recipient":        map[string]string{"kind": "Account", "id": recipient.ID},
		"amount_cents":     5000,
		"transaction_date": "2999-01-01",
		"description":      "rent",
	}, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Contains(t, errResp.Errors, models.MsgInsufficientBalance)

	// A zero-amount transfer from the bank itself goes through
	var txn models.Transaction
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/transactions", map[string]interface{}{
		"sender":           map[string]string{"kind": "Bank", "id": bank.ID},
		"recipient":        map[string]string{"kind": "Account", "id": recipient.ID},
		"amount_cents":     0,
		"transaction_date": "2999-01-01",
		"description":      "placeholder",
	}, &txn)
	require.Equal(t, http.StatusCreated, status)
	require.True(t, txn.Pending)

	var txns []models.Transaction
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/transactions?account_id="+recipient.ID, nil, &txns)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, txns, 1)

	// Pending transactions cannot be marked duplicate
	status = doJSON(t, http.MethodPut, ts.URL+"/api/v1/transactions/"+txn.ID+"/mark_duplicate", nil, &errResp)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Contains(t, errResp.Errors, models.MsgNotCompleted)

	// Pending transactions can be deleted
	var deleted models.Transaction
	status = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/transactions/"+txn.ID, nil, &deleted)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, deleted.DeletedAt)

	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/transactions?deleted=only", nil, &txns)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, txns, 1)
}

// deferredCompletionService returns a persisted-but-pending transaction
// together with the completion failure, the contract a lease timeout during
// a same-day create produces.
type deferredCompletionService struct {
	interfaces.LedgerService
	txn *models.Transaction
	err error
}

func (s *deferredCompletionService) CreateTransaction(context.Context, interfaces.CreateTransactionInput) (*models.Transaction, error) {
	return s.txn, s.err
}

func TestCreateTransactionDeferredCompletionCarriesWarning(t *testing.T) {
	logger := common.NewSilentLogger()
	svc := &deferredCompletionService{
		txn: &models.Transaction{ID: "txn-1", AmountCents: 400, Pending: true},
		err: fmt.Errorf("acquire lock 'account:acc-1': %w", models.ErrLockTimeout),
	}
	srv := NewServer(common.NewDefaultConfig(), logger, svc)
	ts := httptest.NewServer(srv.httpSrv.Handler)
	defer ts.Close()

	var created struct {
		models.Transaction
		Warnings []string `json:"warnings"`
	}
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/transactions", map[string]interface{}{
		"sender":           map[string]string{"kind": "Account", "id": "acc-1"},
		"recipient":        map[string]string{"kind": "Account", "id": "acc-2"},
		"amount_cents":     400,
		"transaction_date": "2026-03-10",
		"description":      "rent",
	}, &created)

	// Persisted despite the failed completion, and the response says why it
	// is still pending.
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "txn-1", created.ID)
	require.True(t, created.Pending)
	require.Len(t, created.Warnings, 1)
	require.Contains(t, created.Warnings[0], models.ErrLockTimeout.Error())
}

func TestMethodAndBodyErrors(t *testing.T) {
	ts := newTestServer(t)

	var errResp ErrorsResponse
	status := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/banks", nil, &errResp)
	require.Equal(t, http.StatusMethodNotAllowed, status)

	resp, err := http.Post(ts.URL+"/api/v1/banks", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSystemEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var health map[string]interface{}
	status := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil, &health)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", health["status"])

	var version map[string]string
	status = doJSON(t, http.MethodGet, ts.URL+"/api/version", nil, &version)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, version["version"])
}
