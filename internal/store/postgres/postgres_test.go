package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// gateRowColumns is the column list for scanGate results.
var gateRowColumns = []string{
	"id", "price_floor", "decay_rate", "increase_num", "increase_den",
	"beneficiary", "last_price", "last_tick", "created_at", "created_by",
}

// gateWithTotalColumns is the column list for queryListGates results.
var gateWithTotalColumns = append([]string{"total_count"}, gateRowColumns...)

func addGateRow(rows *sqlmock.Rows, id, floor, decay, num, den int64, beneficiary string, lastPrice, lastTick int64, now time.Time) *sqlmock.Rows {
	return rows.AddRow(id, floor, decay, num, den, beneficiary, lastPrice, lastTick, now, nil)
}

func TestQueryCreateGate(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO gates").
		WithArgs(int64(100), int64(1), int64(2), int64(1), "ac-b", sql.NullString{String: "alice", Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	gate := &model.Gate{
		PriceFloor:          100,
		DecayRate:           1,
		IncreaseNumerator:   2,
		IncreaseDenominator: 1,
		Beneficiary:         "ac-b",
		CreatedBy:           "alice",
	}
	if err := queryCreateGate(context.Background(), db, gate); err != nil {
		t.Fatalf("queryCreateGate: %v", err)
	}
	if gate.ID != 1 {
		t.Errorf("gate.ID = %d, want 1", gate.ID)
	}
	if !gate.CreatedAt.Equal(now) {
		t.Errorf("gate.CreatedAt = %v, want %v", gate.CreatedAt, now)
	}
}

func TestQueryGetGate(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := addGateRow(sqlmock.NewRows(gateRowColumns), 7, 100, 1, 2, 1, "ac-b", 200, 1000, now)
	mock.ExpectQuery("FROM gates WHERE id = \\$1$").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	gate, err := queryGetGate(context.Background(), db, 7, false)
	if err != nil {
		t.Fatalf("queryGetGate: %v", err)
	}
	if gate.ID != 7 || gate.PriceFloor != 100 || gate.LastPrice != 200 || gate.LastTick != 1000 {
		t.Errorf("gate = %+v", gate)
	}
	if gate.Beneficiary != "ac-b" {
		t.Errorf("beneficiary = %q", gate.Beneficiary)
	}
}

func TestQueryGetGate_ForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := addGateRow(sqlmock.NewRows(gateRowColumns), 7, 100, 1, 2, 1, "ac-b", 0, 0, now)
	mock.ExpectQuery("FROM gates WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	if _, err := queryGetGate(context.Background(), db, 7, true); err != nil {
		t.Fatalf("queryGetGate forUpdate: %v", err)
	}
}

func TestQueryGetGate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM gates WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(gateRowColumns))

	_, err := queryGetGate(context.Background(), db, 42, false)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestQueryListGates(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows(gateWithTotalColumns).
		AddRow(2, int64(1), int64(100), int64(1), int64(2), int64(1), "ac-b", int64(0), int64(0), now, nil).
		AddRow(2, int64(2), int64(50), int64(2), int64(3), int64(2), "ac-c", int64(90), int64(500), now, nil)
	mock.ExpectQuery("FROM gates ORDER BY id ASC").
		WillReturnRows(rows)

	gates, total, err := queryListGates(context.Background(), db, model.GateFilter{})
	if err != nil {
		t.Fatalf("queryListGates: %v", err)
	}
	if total != 2 || len(gates) != 2 {
		t.Fatalf("got %d gates, total %d", len(gates), total)
	}
	if gates[1].LastPrice != 90 {
		t.Errorf("gates[1].LastPrice = %d, want 90", gates[1].LastPrice)
	}
}

func TestQueryListGates_BeneficiaryFilter(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows(gateWithTotalColumns).
		AddRow(1, int64(1), int64(100), int64(1), int64(2), int64(1), "ac-b", int64(0), int64(0), now, nil)
	mock.ExpectQuery("FROM gates WHERE beneficiary = \\$1 ORDER BY id ASC LIMIT \\$2").
		WithArgs("ac-b", 10).
		WillReturnRows(rows)

	gates, total, err := queryListGates(context.Background(), db, model.GateFilter{Beneficiary: "ac-b", Limit: 10})
	if err != nil {
		t.Fatalf("queryListGates: %v", err)
	}
	if total != 1 || len(gates) != 1 {
		t.Fatalf("got %d gates, total %d", len(gates), total)
	}
}

func TestQueryUpdateGatePrice(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE gates SET last_price = \\$2, last_tick = \\$3").
		WithArgs(int64(7), int64(200), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryUpdateGatePrice(context.Background(), db, 7, 200, 1000); err != nil {
		t.Fatalf("queryUpdateGatePrice: %v", err)
	}
}

func TestQueryUpdateGatePrice_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE gates SET last_price = \\$2, last_tick = \\$3").
		WithArgs(int64(42), int64(200), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := queryUpdateGatePrice(context.Background(), db, 42, 200, 1000)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestQueryCreditAccount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("UPDATE accounts SET balance = balance \\+ \\$2").
		WithArgs("ac-b", int64(150)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ac-b"))

	if err := queryCreditAccount(context.Background(), db, "ac-b", 150); err != nil {
		t.Fatalf("queryCreditAccount: %v", err)
	}
}

func TestQueryCreditAccount_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("UPDATE accounts SET balance = balance \\+ \\$2").
		WithArgs("ac-x", int64(150)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT balance, frozen FROM accounts WHERE id = \\$1").
		WithArgs("ac-x").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "frozen"}))

	err := queryCreditAccount(context.Background(), db, "ac-x", 150)
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("error = %v, want ErrAccountNotFound", err)
	}
}

func TestQueryCreditAccount_Frozen(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("UPDATE accounts SET balance = balance \\+ \\$2").
		WithArgs("ac-b", int64(150)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT balance, frozen FROM accounts WHERE id = \\$1").
		WithArgs("ac-b").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "frozen"}).AddRow(int64(0), true))

	err := queryCreditAccount(context.Background(), db, "ac-b", 150)
	if !errors.Is(err, store.ErrAccountFrozen) {
		t.Errorf("error = %v, want ErrAccountFrozen", err)
	}
}

func TestQueryDebitAccount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("UPDATE accounts SET balance = balance - \\$2").
		WithArgs("ac-p", int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ac-p"))

	if err := queryDebitAccount(context.Background(), db, "ac-p", 100); err != nil {
		t.Fatalf("queryDebitAccount: %v", err)
	}
}

func TestQueryDebitAccount_InsufficientFunds(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("UPDATE accounts SET balance = balance - \\$2").
		WithArgs("ac-p", int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT balance, frozen FROM accounts WHERE id = \\$1").
		WithArgs("ac-p").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "frozen"}).AddRow(int64(40), false))

	err := queryDebitAccount(context.Background(), db, "ac-p", 100)
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Errorf("error = %v, want ErrInsufficientFunds", err)
	}
}

func TestQuerySetAccountFrozen_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE accounts SET frozen = \\$2").
		WithArgs("ac-x", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := querySetAccountFrozen(context.Background(), db, "ac-x", true)
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("error = %v, want ErrAccountNotFound", err)
	}
}

func TestQueryRecordPassage(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO passages").
		WithArgs("ps-abc", int64(7), sql.NullString{String: "ac-p", Valid: true}, "ac-b",
			int64(100), int64(150), int64(200), int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	p := &model.Passage{
		ID:          "ps-abc",
		GateID:      7,
		Payer:       "ac-p",
		Beneficiary: "ac-b",
		Cost:        100,
		Payment:     150,
		NextPrice:   200,
		Tick:        1000,
	}
	if err := queryRecordPassage(context.Background(), db, p); err != nil {
		t.Fatalf("queryRecordPassage: %v", err)
	}
	if !p.CreatedAt.Equal(now) {
		t.Errorf("p.CreatedAt = %v, want %v", p.CreatedAt, now)
	}
}

func TestQueryListPassages(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "gate_id", "payer", "beneficiary", "cost", "payment", "next_price", "tick", "created_at"}).
		AddRow("ps-1", int64(7), nil, "ac-b", int64(100), int64(100), int64(200), int64(1000), now)
	mock.ExpectQuery("FROM passages").
		WithArgs(int64(7), 100).
		WillReturnRows(rows)

	// limit <= 0 falls back to the default of 100.
	passages, err := queryListPassages(context.Background(), db, 7, 0)
	if err != nil {
		t.Fatalf("queryListPassages: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("got %d passages", len(passages))
	}
	if passages[0].Payer != "" {
		t.Errorf("NULL payer scanned as %q", passages[0].Payer)
	}
}

func TestQueryGetStats(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"gates", "accounts", "passages", "volume"}).
		AddRow(int64(3), int64(5), int64(12), int64(4200))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	stats, err := queryGetStats(context.Background(), db)
	if err != nil {
		t.Fatalf("queryGetStats: %v", err)
	}
	if stats.TotalGates != 3 || stats.TotalAccounts != 5 || stats.TotalPassages != 12 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.VolumeForwarded != 4200 {
		t.Errorf("volume = %d, want 4200", stats.VolumeForwarded)
	}
}

func TestRunInTransaction_Commit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE gates SET last_price = \\$2, last_tick = \\$3").
		WithArgs(int64(7), int64(200), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := &PostgresStore{db: db}
	err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
		return tx.UpdateGatePrice(context.Background(), 7, 200, 1000)
	})
	if err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}
}

func TestRunInTransaction_Rollback(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	s := &PostgresStore{db: db}
	wantErr := errors.New("boom")
	err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestRunInTransaction_Nested(t *testing.T) {
	db, mock := newMockDB(t)

	// A nested call reuses the outer transaction: only one BEGIN/COMMIT.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE gates SET last_price = \\$2, last_tick = \\$3").
		WithArgs(int64(7), int64(200), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := &PostgresStore{db: db}
	err := s.RunInTransaction(context.Background(), func(outer store.Store) error {
		return outer.RunInTransaction(context.Background(), func(inner store.Store) error {
			return inner.UpdateGatePrice(context.Background(), 7, 200, 1000)
		})
	})
	if err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Error("nullString(\"\") should be invalid")
	}
	if ns := nullString("hello"); !ns.Valid || ns.String != "hello" {
		t.Errorf("nullString(\"hello\") = %v", ns)
	}
}
