package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/tollgate/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanGate scans a single row into a model.Gate.
// The row must contain columns in the order defined by gateColumns.
func scanGate(row scannable) (*model.Gate, error) {
	var g model.Gate
	var (
		id          int64
		priceFloor  int64
		decayRate   int64
		increaseNum int64
		increaseDen int64
		lastPrice   int64
		lastTick    int64
		createdBy   sql.NullString
	)

	err := row.Scan(
		&id,
		&priceFloor,
		&decayRate,
		&increaseNum,
		&increaseDen,
		&g.Beneficiary,
		&lastPrice,
		&lastTick,
		&g.CreatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}

	g.ID = uint64(id)
	g.PriceFloor = uint64(priceFloor)
	g.DecayRate = uint64(decayRate)
	g.IncreaseNumerator = uint64(increaseNum)
	g.IncreaseDenominator = uint64(increaseDen)
	g.LastPrice = uint64(lastPrice)
	g.LastTick = uint64(lastTick)
	g.CreatedBy = createdBy.String

	return &g, nil
}

// scanGateWithTotal scans a row that has a leading total_count column followed
// by the standard gate columns. Used by queryListGates with COUNT(*) OVER().
func scanGateWithTotal(rows *sql.Rows) (*model.Gate, int, error) {
	var g model.Gate
	var (
		total       int
		id          int64
		priceFloor  int64
		decayRate   int64
		increaseNum int64
		increaseDen int64
		lastPrice   int64
		lastTick    int64
		createdBy   sql.NullString
	)

	err := rows.Scan(
		&total,
		&id,
		&priceFloor,
		&decayRate,
		&increaseNum,
		&increaseDen,
		&g.Beneficiary,
		&lastPrice,
		&lastTick,
		&g.CreatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, 0, err
	}

	g.ID = uint64(id)
	g.PriceFloor = uint64(priceFloor)
	g.DecayRate = uint64(decayRate)
	g.IncreaseNumerator = uint64(increaseNum)
	g.IncreaseDenominator = uint64(increaseDen)
	g.LastPrice = uint64(lastPrice)
	g.LastTick = uint64(lastTick)
	g.CreatedBy = createdBy.String

	return &g, total, nil
}

func scanAccount(row scannable) (*model.Account, error) {
	var a model.Account
	var (
		name    sql.NullString
		balance int64
	)

	err := row.Scan(&a.ID, &name, &balance, &a.Frozen, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Name = name.String
	a.Balance = uint64(balance)
	return &a, nil
}

func scanAccounts(rows *sql.Rows) ([]*model.Account, error) {
	var accounts []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func scanPassage(row scannable) (*model.Passage, error) {
	var p model.Passage
	var (
		gateID    int64
		payer     sql.NullString
		cost      int64
		payment   int64
		nextPrice int64
		tick      int64
	)

	err := row.Scan(&p.ID, &gateID, &payer, &p.Beneficiary, &cost, &payment, &nextPrice, &tick, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.GateID = uint64(gateID)
	p.Payer = payer.String
	p.Cost = uint64(cost)
	p.Payment = uint64(payment)
	p.NextPrice = uint64(nextPrice)
	p.Tick = uint64(tick)
	return &p, nil
}

func scanPassages(rows *sql.Rows) ([]*model.Passage, error) {
	var passages []*model.Passage
	for rows.Next() {
		p, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		gateID  sql.NullInt64
		actor   sql.NullString
		payload []byte
	)

	err := row.Scan(&e.ID, &e.Topic, &gateID, &actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.GateID = uint64(gateID.Int64)
	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// nullString converts an empty string to a NULL-able value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
