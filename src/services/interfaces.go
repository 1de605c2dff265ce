package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/mtop/backend/src/model"
	"github.com/username/mtop/backend/src/models"
)

// Common service errors.
var (
	ErrParsingFailed     = errors.New("statement parsing failed")
	ErrEmptyStatement    = errors.New("statement contains no usable transactions")
	ErrStatementNotFound = model.ErrStatementNotFound
)

// UploadSummary is the response of a successful statement upload.
type UploadSummary struct {
	Statement *model.Statement `json:"statement"`

	// Token grants access to the statement's report endpoints.
	Token string `json:"token"`
}

// StatementService is the orchestration surface over parsing, persistence
// and the category processors.
type StatementService interface {
	// ProcessUpload validates, parses and stores one uploaded statement and
	// returns its metadata plus an access token.
	ProcessUpload(fileReader io.Reader, source, filename string) (*UploadSummary, error)

	// GetStatement returns stored statement metadata.
	GetStatement(statementID string) (*model.Statement, error)

	// GetReport computes (or returns from cache) the six category results
	// over the statement's ledger, narrowed by the filter.
	GetReport(ctx context.Context, statementID string, filter models.LedgerFilter, topN int) (*models.StatementReport, error)

	// DeleteStatement removes a statement, its ledger and any cached reports.
	DeleteStatement(statementID string) error
}
