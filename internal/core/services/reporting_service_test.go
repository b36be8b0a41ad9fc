package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReporting *MockReportingRepository
	mockJobs      *MockSyncJobRepository
	service       portssvc.ReportingSvcFacade
	ctx           context.Context
	orgID         string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReporting = new(MockReportingRepository)
	suite.mockJobs = new(MockSyncJobRepository)
	suite.service = services.NewReportingService(suite.mockReporting, suite.mockJobs)
	suite.ctx = context.Background()
	suite.orgID = uuid.NewString()
}

func (suite *ReportingServiceTestSuite) TestRevenueSummary_ComputesShares() {
	suite.mockReporting.On("GetRevenueByRail", suite.ctx, suite.orgID).Return([]portsrepo.RailTotal{
		{Rail: domain.RailCard, Total: decimal.RequireFromString("750.00"), Count: 5},
		{Rail: domain.RailUSDC, Total: decimal.RequireFromString("250.00"), Count: 2},
	}, nil).Once()

	summary, err := suite.service.RevenueSummary(suite.ctx, suite.orgID)

	suite.Require().NoError(err)
	suite.Require().Len(summary, len(domain.AllRails()))

	byRail := make(map[domain.Rail]domain.RailRevenue, len(summary))
	for _, row := range summary {
		byRail[row.Rail] = row
	}
	assert.True(suite.T(), byRail[domain.RailCard].Percentage.Equal(decimal.RequireFromString("75")),
		"got %s", byRail[domain.RailCard].Percentage)
	assert.True(suite.T(), byRail[domain.RailUSDC].Percentage.Equal(decimal.RequireFromString("25")))
	assert.Equal(suite.T(), 5, byRail[domain.RailCard].Count)

	// Rails without activity still appear, zeroed.
	assert.True(suite.T(), byRail[domain.RailSOL].Total.IsZero())
	assert.True(suite.T(), byRail[domain.RailSOL].Percentage.IsZero())
}

func (suite *ReportingServiceTestSuite) TestRevenueSummary_NoActivity() {
	suite.mockReporting.On("GetRevenueByRail", suite.ctx, suite.orgID).
		Return([]portsrepo.RailTotal{}, nil).Once()

	summary, err := suite.service.RevenueSummary(suite.ctx, suite.orgID)

	suite.Require().NoError(err)
	for _, row := range summary {
		assert.True(suite.T(), row.Total.IsZero())
		assert.True(suite.T(), row.Percentage.IsZero())
	}
}

func (suite *ReportingServiceTestSuite) TestRevenueTimeseries_GroupsRowsIntoBuckets() {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	suite.mockReporting.On("GetRevenueTimeseries", suite.ctx, suite.orgID, domain.GranularityDay, from, to).
		Return([]portsrepo.TimeseriesRow{
			{BucketStart: day2, Rail: domain.RailCard, Total: decimal.RequireFromString("50.00")},
			{BucketStart: day1, Rail: domain.RailCard, Total: decimal.RequireFromString("100.00")},
			{BucketStart: day1, Rail: domain.RailUSDC, Total: decimal.RequireFromString("40.00")},
		}, nil).Once()

	points, err := suite.service.RevenueTimeseries(suite.ctx, suite.orgID, domain.GranularityDay, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(points, 2)

	// Buckets come back in chronological order regardless of row order.
	assert.Equal(suite.T(), day1, points[0].BucketStart)
	assert.True(suite.T(), points[0].Total.Equal(decimal.RequireFromString("140.00")), "got %s", points[0].Total)
	assert.True(suite.T(), points[0].ByRail[domain.RailUSDC].Equal(decimal.RequireFromString("40.00")))
	assert.Equal(suite.T(), day2, points[1].BucketStart)
	assert.True(suite.T(), points[1].Total.Equal(decimal.RequireFromString("50.00")))
}

func (suite *ReportingServiceTestSuite) TestRevenueTimeseries_RejectsUnknownGranularity() {
	_, err := suite.service.RevenueTimeseries(suite.ctx, suite.orgID, domain.Granularity("decade"), time.Now(), time.Now())

	assert.Error(suite.T(), err)
	suite.mockReporting.AssertNotCalled(suite.T(), "GetRevenueTimeseries",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestExportPaymentsCSV_WritesHeaderAndRows() {
	confirmed := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	suite.mockReporting.On("ListPaymentExportRows", suite.ctx, suite.orgID).
		Return([]portsrepo.PaymentExportRow{
			{
				PaymentID:    "pay-1",
				Reference:    "INV-1042",
				Amount:       decimal.RequireFromString("150.00"),
				CurrencyCode: "AUD",
				Status:       "PAID",
				Rail:         "USDC",
				Asset:        "USDC",
				ExternalRef:  "3fGhsig",
				ConfirmedAt:  &confirmed,
				CreatedAt:    time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC),
			},
			{
				PaymentID:    "pay-2",
				Reference:    "INV-1043",
				Amount:       decimal.RequireFromString("90.00"),
				CurrencyCode: "AUD",
				Status:       "OPEN",
				CreatedAt:    time.Date(2025, 5, 31, 8, 0, 0, 0, time.UTC),
			},
		}, nil).Once()

	var buf bytes.Buffer
	err := suite.service.ExportPaymentsCSV(suite.ctx, suite.orgID, &buf)

	suite.Require().NoError(err)

	records, err := csv.NewReader(&buf).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 3)
	assert.Equal(suite.T(), []string{"payment_id", "reference", "amount", "currency", "status", "rail", "asset", "external_ref", "confirmed_at", "created_at"}, records[0])
	assert.Equal(suite.T(), "pay-1", records[1][0])
	assert.Equal(suite.T(), "USDC", records[1][5])
	assert.Equal(suite.T(), "2025-06-01T09:30:00Z", records[1][8])
	// Unconfirmed payments export with empty rail and confirmation columns.
	assert.Equal(suite.T(), "", records[2][5])
	assert.Equal(suite.T(), "", records[2][8])
}

func (suite *ReportingServiceTestSuite) TestGetSyncStats_DelegatesToRepository() {
	stats := &domain.SyncStats{Total: 10, Succeeded: 8, Failed: 2, SuccessRate: decimal.RequireFromString("0.8")}

	suite.mockJobs.On("GetSyncStats", suite.ctx, suite.orgID).Return(stats, nil).Once()

	got, err := suite.service.GetSyncStats(suite.ctx, suite.orgID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 10, got.Total)
	assert.True(suite.T(), got.SuccessRate.Equal(decimal.RequireFromString("0.8")))
}

func (suite *ReportingServiceTestSuite) TestGetSyncHistory_DelegatesToRepository() {
	jobs := []domain.SyncJob{{JobID: uuid.NewString(), PaymentID: "pay-1"}}

	suite.mockJobs.On("ListJobsByPayment", suite.ctx, "pay-1").Return(jobs, nil).Once()

	got, err := suite.service.GetSyncHistory(suite.ctx, "pay-1")

	suite.Require().NoError(err)
	assert.Len(suite.T(), got, 1)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
