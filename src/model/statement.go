package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/mtop/backend/src/models"
)

// ErrStatementNotFound is returned when a statement ID has no row.
var ErrStatementNotFound = errors.New("statement not found")

// Statement is the stored metadata of one uploaded statement.
type Statement struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	TransactionCount int       `json:"transaction_count"`
}

// CreateStatement inserts the statement metadata row.
func CreateStatement(db *sql.DB, s *Statement) error {
	if s.UploadedAt.IsZero() {
		s.UploadedAt = time.Now().UTC()
	}
	_, err := db.Exec(`
		INSERT INTO statements (id, filename, uploaded_at, period_start, period_end, transaction_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Filename, s.UploadedAt, s.PeriodStart, s.PeriodEnd, s.TransactionCount,
	)
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

// GetStatementByID fetches one statement's metadata.
func GetStatementByID(db *sql.DB, id string) (*Statement, error) {
	var s Statement
	err := db.QueryRow(`
		SELECT id, filename, uploaded_at, period_start, period_end, transaction_count
		FROM statements WHERE id = ?`, id,
	).Scan(&s.ID, &s.Filename, &s.UploadedAt, &s.PeriodStart, &s.PeriodEnd, &s.TransactionCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatementNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query statement %s: %w", id, err)
	}
	return &s, nil
}

// InsertTransactions stores a statement's ledger rows in one transaction.
func InsertTransactions(db *sql.DB, statementID string, ledger []models.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert transactions: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO transactions (statement_id, receipt_no, occurred_at, category_code,
			subtype_description, counterparty, amount_out, amount_in, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert transactions: %w", err)
	}
	defer stmt.Close()

	for _, row := range ledger {
		if _, err := stmt.Exec(
			statementID, row.ReceiptNo, row.Timestamp, row.CategoryCode,
			row.SubtypeDescription, row.Counterparty, row.AmountOut, row.AmountIn, row.Balance,
		); err != nil {
			return fmt.Errorf("insert transaction row: %w", err)
		}
	}
	return tx.Commit()
}

// GetTransactionsByStatement loads a statement's ledger, oldest first.
func GetTransactionsByStatement(db *sql.DB, statementID string) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT receipt_no, occurred_at, category_code, subtype_description,
			counterparty, amount_out, amount_in, balance
		FROM transactions
		WHERE statement_id = ?
		ORDER BY occurred_at ASC, id ASC`, statementID)
	if err != nil {
		return nil, fmt.Errorf("query transactions for statement %s: %w", statementID, err)
	}
	defer rows.Close()

	var ledger []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ReceiptNo, &t.Timestamp, &t.CategoryCode, &t.SubtypeDescription,
			&t.Counterparty, &t.AmountOut, &t.AmountIn, &t.Balance,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		ledger = append(ledger, t)
	}
	return ledger, rows.Err()
}

// DeleteStatement removes the statement and, via the cascade, its ledger.
func DeleteStatement(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM statements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete statement %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete statement %s: %w", id, err)
	}
	if affected == 0 {
		return ErrStatementNotFound
	}
	return nil
}
