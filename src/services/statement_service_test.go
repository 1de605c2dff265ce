package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/mtop/backend/src/logger"
	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/processors"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newTestService(procs []processors.CategoryProcessor) *statementServiceImpl {
	return &statementServiceImpl{
		procs:       procs,
		reportCache: cache.New(DefaultCacheExpiration, CacheCleanupInterval),
	}
}

func testLedger() []models.Transaction {
	return []models.Transaction{
		{CategoryCode: "Merchant Payment", SubtypeDescription: "to", Counterparty: "Naivas", AmountOut: 500},
		{CategoryCode: "Merchant Payment", SubtypeDescription: "to", Counterparty: "Quickmart", AmountOut: 200},
		{CategoryCode: "Customer Transfer", SubtypeDescription: "to", Counterparty: "2547*****23 john doe", AmountOut: 1000},
		{CategoryCode: "Customer Transfer", SubtypeDescription: "of Funds Charge", Counterparty: "Safaricom", AmountOut: 13},
		{CategoryCode: "Funds received", SubtypeDescription: "from", Counterparty: "2547*****01 jane roe", AmountIn: 1000},
		{CategoryCode: "Customer Withdrawal", SubtypeDescription: "At Agent Till", Counterparty: "AGENT ALPHA", AmountOut: 2000},
		{CategoryCode: "Cash Withdrawal", SubtypeDescription: "Charge", Counterparty: "Safaricom", AmountOut: 28},
		{CategoryCode: "Airtime Purchase", Counterparty: "", AmountOut: 100},
	}
}

func TestBuildReport(t *testing.T) {
	svc := newTestService(processors.All())

	report := svc.buildReport(context.Background(), "stmt-1", testLedger(), 9)

	assert.Equal(t, "stmt-1", report.StatementID)
	assert.Equal(t, 9, report.TopN)
	assert.WithinDuration(t, time.Now().UTC(), report.GeneratedAt, time.Minute)

	assert.Equal(t, 700.0, report.MerchantPayments.TotalAmount)
	assert.Equal(t, 1000.0, report.PeerTransfers.TotalAmount)
	assert.Equal(t, 13.0, report.PeerTransfers.TotalCharges)
	assert.Equal(t, 1000.0, report.ReceivedFunds.TotalAmount)
	assert.Equal(t, 2000.0, report.CashWithdrawals.TotalAmount)
	assert.Equal(t, 28.0, report.CashWithdrawals.TotalCharges)
	assert.Equal(t, 100.0, report.AirtimePurchases.TotalAmount)
	assert.False(t, report.PayBillPayments.HasData())
}

// panicProcessor stands in for a category whose processing blows up.
type panicProcessor struct{}

func (p *panicProcessor) Category() models.Category { return models.CategoryMerchantPayments }
func (p *panicProcessor) Process([]models.Transaction, int) models.CategoryResult {
	panic("boom")
}

func TestBuildReportIsolatesPanics(t *testing.T) {
	procs := append([]processors.CategoryProcessor{&panicProcessor{}}, processors.All()[1:]...)
	svc := newTestService(procs)

	report := svc.buildReport(context.Background(), "stmt-1", testLedger(), 9)

	// The panicking category degrades to its zero result.
	assert.Equal(t, models.CategoryMerchantPayments, report.MerchantPayments.Category)
	assert.False(t, report.MerchantPayments.HasData())
	// The other five still compute.
	assert.True(t, report.PeerTransfers.HasData())
	assert.True(t, report.CashWithdrawals.HasData())
}

func TestRunIsolated(t *testing.T) {
	got := runIsolated(context.Background(), &panicProcessor{}, testLedger(), 9)

	assert.Equal(t, models.CategoryMerchantPayments, got.Category)
	assert.Zero(t, got.TransactionCount)
}

func TestGetReportServesFromCache(t *testing.T) {
	svc := newTestService(processors.All())

	filter := models.LedgerFilter{}
	cached := &models.StatementReport{StatementID: "stmt-1", TopN: 9}
	svc.reportCache.Set(fmt.Sprintf(ckReport, "stmt-1", 9, filter.CacheKey()), cached, cache.DefaultExpiration)

	// With a nil DB handle the only way this succeeds is the cache path.
	got, err := svc.GetReport(context.Background(), "stmt-1", filter, 9)
	require.NoError(t, err)
	assert.Same(t, cached, got)
}

func TestGetReportRejectsInvalidFilter(t *testing.T) {
	svc := newTestService(processors.All())

	_, err := svc.GetReport(context.Background(), "stmt-1", models.LedgerFilter{
		From:   time.Now(),
		Months: []string{"January_2024"},
	}, 9)
	assert.Error(t, err)
}

func TestInvalidateStatementCache(t *testing.T) {
	svc := newTestService(nil)
	svc.reportCache.Set(fmt.Sprintf(ckReport, "stmt-1", 9, "all"), &models.StatementReport{}, cache.DefaultExpiration)
	svc.reportCache.Set(fmt.Sprintf(ckReport, "stmt-1", 5, "all"), &models.StatementReport{}, cache.DefaultExpiration)
	svc.reportCache.Set(fmt.Sprintf(ckReport, "stmt-2", 9, "all"), &models.StatementReport{}, cache.DefaultExpiration)

	svc.invalidateStatementCache("stmt-1")

	_, found := svc.reportCache.Get(fmt.Sprintf(ckReport, "stmt-1", 9, "all"))
	assert.False(t, found)
	_, found = svc.reportCache.Get(fmt.Sprintf(ckReport, "stmt-1", 5, "all"))
	assert.False(t, found)
	_, found = svc.reportCache.Get(fmt.Sprintf(ckReport, "stmt-2", 9, "all"))
	assert.True(t, found, "other statements keep their cached reports")
}
