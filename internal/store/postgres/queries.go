package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/store"
)

// gateColumns is the column list used for SELECT statements on the gates table.
const gateColumns = `id, price_floor, decay_rate, increase_num, increase_den,
	beneficiary, last_price, last_tick, created_at, created_by`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateGate(ctx context.Context, db executor, g *model.Gate) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO gates (
			price_floor, decay_rate, increase_num, increase_den,
			beneficiary, created_by
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		int64(g.PriceFloor),
		int64(g.DecayRate),
		int64(g.IncreaseNumerator),
		int64(g.IncreaseDenominator),
		g.Beneficiary,
		nullString(g.CreatedBy),
	).Scan(&g.ID, &g.CreatedAt)
}

func queryGetGate(ctx context.Context, db executor, id uint64, forUpdate bool) (*model.Gate, error) {
	q := `SELECT ` + gateColumns + ` FROM gates WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	return scanGate(db.QueryRowContext(ctx, q, int64(id)))
}

func queryListGates(ctx context.Context, db executor, filter model.GateFilter) ([]*model.Gate, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Beneficiary != "" {
		whereClauses = append(whereClauses, "beneficiary = "+nextArg())
		args = append(args, filter.Beneficiary)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + gateColumns + " FROM gates" + whereSQL + " ORDER BY id ASC"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list gates: %w", err)
	}
	defer rows.Close()

	var gates []*model.Gate
	var total int
	for rows.Next() {
		g, t, err := scanGateWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan gates: %w", err)
		}
		total = t
		gates = append(gates, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan gates: %w", err)
	}

	return gates, total, nil
}

func queryUpdateGatePrice(ctx context.Context, db executor, id uint64, lastPrice, lastTick uint64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE gates SET last_price = $2, last_tick = $3
		WHERE id = $1`,
		int64(id), int64(lastPrice), int64(lastTick),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreateAccount(ctx context.Context, db executor, a *model.Account) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, name, balance, frozen)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		a.ID, nullString(a.Name), int64(a.Balance), a.Frozen,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func queryGetAccount(ctx context.Context, db executor, id string) (*model.Account, error) {
	return scanAccount(db.QueryRowContext(ctx, `
		SELECT id, name, balance, frozen, created_at, updated_at
		FROM accounts WHERE id = $1`, id))
}

func queryListAccounts(ctx context.Context, db executor) ([]*model.Account, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, balance, frozen, created_at, updated_at
		FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func queryCreditAccount(ctx context.Context, db executor, id string, amount uint64) error {
	var got string
	err := db.QueryRowContext(ctx, `
		UPDATE accounts SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND NOT frozen
		RETURNING id`,
		id, int64(amount),
	).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return classifyMovementFailure(ctx, db, id, 0)
	}
	return err
}

func queryDebitAccount(ctx context.Context, db executor, id string, amount uint64) error {
	var got string
	err := db.QueryRowContext(ctx, `
		UPDATE accounts SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND NOT frozen AND balance >= $2
		RETURNING id`,
		id, int64(amount),
	).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return classifyMovementFailure(ctx, db, id, int64(amount))
	}
	return err
}

// classifyMovementFailure turns a guarded UPDATE that matched no rows into a
// specific ledger error: missing account, frozen account, or short balance.
func classifyMovementFailure(ctx context.Context, db executor, id string, need int64) error {
	var (
		balance int64
		frozen  bool
	)
	err := db.QueryRowContext(ctx, `SELECT balance, frozen FROM accounts WHERE id = $1`, id).
		Scan(&balance, &frozen)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if frozen {
		return store.ErrAccountFrozen
	}
	if balance < need {
		return store.ErrInsufficientFunds
	}
	return sql.ErrNoRows
}

func querySetAccountFrozen(ctx context.Context, db executor, id string, frozen bool) error {
	res, err := db.ExecContext(ctx, `
		UPDATE accounts SET frozen = $2, updated_at = NOW()
		WHERE id = $1`,
		id, frozen,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}

func queryRecordPassage(ctx context.Context, db executor, p *model.Passage) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO passages (id, gate_id, payer, beneficiary, cost, payment, next_price, tick)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		p.ID,
		int64(p.GateID),
		nullString(p.Payer),
		p.Beneficiary,
		int64(p.Cost),
		int64(p.Payment),
		int64(p.NextPrice),
		int64(p.Tick),
	).Scan(&p.CreatedAt)
}

func queryListPassages(ctx context.Context, db executor, gateID uint64, limit int) ([]*model.Passage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, gate_id, payer, beneficiary, cost, payment, next_price, tick, created_at
		FROM passages
		WHERE gate_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		int64(gateID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPassages(rows)
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, gate_id, actor, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, int64(e.GateID), nullString(e.Actor), []byte(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, gateID uint64) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, gate_id, actor, payload, created_at
		FROM events
		WHERE gate_id = $1
		ORDER BY created_at ASC`,
		int64(gateID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryGetStats(ctx context.Context, db executor) (*model.Stats, error) {
	stats := &model.Stats{}
	var volume int64
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM gates),
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM passages),
			(SELECT COALESCE(SUM(payment), 0) FROM passages)`).Scan(
		&stats.TotalGates,
		&stats.TotalAccounts,
		&stats.TotalPassages,
		&volume,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	stats.VolumeForwarded = uint64(volume)
	return stats, nil
}
