package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/username/mtop/backend/src/logger"
	"github.com/username/mtop/backend/src/model"
	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/parsers"
	"github.com/username/mtop/backend/src/processors"
	"github.com/username/mtop/backend/src/security/validation"
)

const (
	ckReport = "report_stmt_%s_top_%d_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type statementServiceImpl struct {
	db          *sql.DB
	procs       []processors.CategoryProcessor
	tokenIssuer TokenIssuer
	reportCache *cache.Cache
}

// TokenIssuer abstracts the statement-token signer so tests can stub it.
type TokenIssuer interface {
	IssueToken(statementID string) (string, error)
}

// NewStatementService wires the service over the database handle, the six
// category processors, the token signer and a shared report cache.
func NewStatementService(db *sql.DB, procs []processors.CategoryProcessor, tokenIssuer TokenIssuer, reportCache *cache.Cache) StatementService {
	return &statementServiceImpl{
		db:          db,
		procs:       procs,
		tokenIssuer: tokenIssuer,
		reportCache: reportCache,
	}
}

func (s *statementServiceImpl) ProcessUpload(fileReader io.Reader, source, filename string) (*UploadSummary, error) {
	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	ledger, err := parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if len(ledger) == 0 {
		return nil, ErrEmptyStatement
	}

	// Free-text fields flow back out to frontends; clean them on the way in.
	for i := range ledger {
		ledger[i].Counterparty = validation.CleanLedgerField(ledger[i].Counterparty)
		ledger[i].CategoryCode = validation.CleanLedgerField(ledger[i].CategoryCode)
		ledger[i].SubtypeDescription = validation.CleanLedgerField(ledger[i].SubtypeDescription)
	}

	stmt := &model.Statement{
		ID:               uuid.New().String(),
		Filename:         filename,
		UploadedAt:       time.Now().UTC(),
		PeriodStart:      ledger[0].Timestamp,
		PeriodEnd:        ledger[len(ledger)-1].Timestamp,
		TransactionCount: len(ledger),
	}
	if err := model.CreateStatement(s.db, stmt); err != nil {
		return nil, err
	}
	if err := model.InsertTransactions(s.db, stmt.ID, ledger); err != nil {
		return nil, err
	}

	token, err := s.tokenIssuer.IssueToken(stmt.ID)
	if err != nil {
		return nil, err
	}

	logger.L.Info("Statement stored",
		"statementID", stmt.ID, "filename", filename,
		"rows", stmt.TransactionCount,
		"periodStart", stmt.PeriodStart, "periodEnd", stmt.PeriodEnd)

	return &UploadSummary{Statement: stmt, Token: token}, nil
}

func (s *statementServiceImpl) GetStatement(statementID string) (*model.Statement, error) {
	return model.GetStatementByID(s.db, statementID)
}

func (s *statementServiceImpl) GetReport(ctx context.Context, statementID string, filter models.LedgerFilter, topN int) (*models.StatementReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(ckReport, statementID, topN, filter.CacheKey())
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.StatementReport), nil
	}

	if _, err := model.GetStatementByID(s.db, statementID); err != nil {
		return nil, err
	}
	ledger, err := model.GetTransactionsByStatement(s.db, statementID)
	if err != nil {
		return nil, err
	}

	report := s.buildReport(ctx, statementID, filter.Apply(ledger), topN)
	s.reportCache.Set(cacheKey, report, cache.DefaultExpiration)
	return report, nil
}

// buildReport runs the six processors in parallel over the same read-only
// ledger snapshot. Each category is isolated: a panicking processor yields
// its zero-valued result and an error log, and never takes the other five
// down with it.
func (s *statementServiceImpl) buildReport(ctx context.Context, statementID string, ledger []models.Transaction, topN int) *models.StatementReport {
	report := &models.StatementReport{
		StatementID: statementID,
		GeneratedAt: time.Now().UTC(),
		TopN:        topN,
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, proc := range s.procs {
		proc := proc
		g.Go(func() error {
			result := runIsolated(ctx, proc, ledger, topN)
			switch result.Category {
			case models.CategoryMerchantPayments:
				report.MerchantPayments = result
			case models.CategoryPayBillPayments:
				report.PayBillPayments = result
			case models.CategoryPeerTransfers:
				report.PeerTransfers = result
			case models.CategoryReceivedFunds:
				report.ReceivedFunds = result
			case models.CategoryCashWithdrawals:
				report.CashWithdrawals = result
			case models.CategoryAirtimePurchases:
				report.AirtimePurchases = result
			}
			return nil
		})
	}
	g.Wait()
	return report
}

// runIsolated invokes one processor, converting a panic into the category's
// zero-valued result.
func runIsolated(ctx context.Context, proc processors.CategoryProcessor, ledger []models.Transaction, topN int) (result models.CategoryResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("Category processor panicked; emitting empty result",
				"category", proc.Category(), "panic", r)
			result = models.CategoryResult{Category: proc.Category()}
		}
	}()
	return proc.Process(ledger, topN)
}

func (s *statementServiceImpl) DeleteStatement(statementID string) error {
	if err := model.DeleteStatement(s.db, statementID); err != nil {
		return err
	}
	s.invalidateStatementCache(statementID)
	logger.L.Info("Statement deleted", "statementID", statementID)
	return nil
}

// invalidateStatementCache drops every cached report for a statement.
func (s *statementServiceImpl) invalidateStatementCache(statementID string) {
	prefix := fmt.Sprintf("report_stmt_%s_", statementID)
	for key := range s.reportCache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.reportCache.Delete(key)
		}
	}
}
