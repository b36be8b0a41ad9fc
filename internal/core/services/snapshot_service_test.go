package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockSnapshotRepository is a mock type for the SnapshotRepositoryFacade interface
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.FxSnapshot) (*domain.FxSnapshot, error) {
	args := m.Called(ctx, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) FindSnapshot(ctx context.Context, paymentID string, kind domain.SnapshotKind, asset string) (*domain.FxSnapshot, error) {
	args := m.Called(ctx, paymentID, kind, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListSnapshotsByPayment(ctx context.Context, paymentID string) ([]domain.FxSnapshot, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FxSnapshot), args.Error(1)
}

// MockRateService is a mock type for the RateSvcFacade interface
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, quote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateService) GetRates(ctx context.Context, pairs []gateways.CurrencyPair) (map[string]*domain.ExchangeRate, error) {
	args := m.Called(ctx, pairs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.ExchangeRate), args.Error(1)
}

type SnapshotServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockSnapshotRepository
	mockRateSvc *MockRateService
	service     portssvc.SnapshotSvcFacade
	ctx         context.Context
	paymentID   string
}

func (suite *SnapshotServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSnapshotRepository)
	suite.mockRateSvc = new(MockRateService)
	suite.service = services.NewSnapshotService(suite.mockRepo, suite.mockRateSvc)
	suite.ctx = context.Background()
	suite.paymentID = uuid.NewString()
}

func (suite *SnapshotServiceTestSuite) snapshot(kind domain.SnapshotKind, asset, rate string) domain.FxSnapshot {
	return domain.FxSnapshot{
		SnapshotID:    uuid.NewString(),
		PaymentID:     suite.paymentID,
		Kind:          kind,
		Asset:         asset,
		BaseCurrency:  asset,
		QuoteCurrency: "AUD",
		Rate:          decimal.RequireFromString(rate),
		Source:        "pricefeed-primary",
		CapturedAt:    time.Now().UTC(),
	}
}

func (suite *SnapshotServiceTestSuite) TestCaptureSettlementSnapshot_FetchesAndSaves() {
	rate := &domain.ExchangeRate{
		BaseCurrency:  "SOL",
		QuoteCurrency: "AUD",
		Rate:          decimal.RequireFromString("231.50"),
		Source:        "pricefeed-primary",
		ObservedAt:    time.Now().UTC(),
	}

	persisted := suite.snapshot(domain.SnapshotSettlement, "SOL", "231.50")

	suite.mockRepo.On("FindSnapshot", suite.ctx, suite.paymentID, domain.SnapshotSettlement, "SOL").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateSvc.On("GetRate", suite.ctx, "SOL", "AUD").Return(rate, nil).Once()
	suite.mockRepo.On("SaveSnapshot", suite.ctx, mock.MatchedBy(func(s domain.FxSnapshot) bool {
		return s.PaymentID == suite.paymentID &&
			s.Kind == domain.SnapshotSettlement &&
			s.Asset == "SOL" &&
			s.Rate.Equal(rate.Rate)
	})).Return(&persisted, nil).Once()

	saved, err := suite.service.CaptureSettlementSnapshot(suite.ctx, suite.paymentID, "SOL", "AUD", "SOL")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "SOL", saved.Asset)
	assert.Equal(suite.T(), "pricefeed-primary", saved.Source)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SnapshotServiceTestSuite) TestCaptureSettlementSnapshot_ReturnsExistingRow() {
	existing := suite.snapshot(domain.SnapshotSettlement, "USDC", "1.54")

	suite.mockRepo.On("FindSnapshot", suite.ctx, suite.paymentID, domain.SnapshotSettlement, "USDC").
		Return(&existing, nil).Once()

	saved, err := suite.service.CaptureSettlementSnapshot(suite.ctx, suite.paymentID, "USDC", "AUD", "USDC")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), existing.SnapshotID, saved.SnapshotID)
	suite.mockRateSvc.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSnapshot", mock.Anything, mock.Anything)
}

func (suite *SnapshotServiceTestSuite) TestCaptureCreationSnapshot_RateUnavailable() {
	suite.mockRepo.On("FindSnapshot", suite.ctx, suite.paymentID, domain.SnapshotCreation, "SOL").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateSvc.On("GetRate", suite.ctx, "SOL", "AUD").
		Return(nil, apperrors.ErrRateUnavailable).Once()

	_, err := suite.service.CaptureCreationSnapshot(suite.ctx, suite.paymentID, "SOL", "AUD", "SOL")

	assert.ErrorIs(suite.T(), err, apperrors.ErrRateUnavailable)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSnapshot", mock.Anything, mock.Anything)
}

func (suite *SnapshotServiceTestSuite) TestCaptureAllCreationSnapshots_SkipsUnpricedAssets() {
	rates := map[string]*domain.ExchangeRate{
		"SOL/AUD":  {BaseCurrency: "SOL", QuoteCurrency: "AUD", Rate: decimal.RequireFromString("231.50"), Source: "pricefeed-primary"},
		"USDC/AUD": {BaseCurrency: "USDC", QuoteCurrency: "AUD", Rate: decimal.RequireFromString("1.54"), Source: "pricefeed-primary"},
		// USDT and AUDD intentionally absent.
	}

	savedSOL := suite.snapshot(domain.SnapshotCreation, "SOL", "231.50")
	savedUSDC := suite.snapshot(domain.SnapshotCreation, "USDC", "1.54")

	suite.mockRateSvc.On("GetRates", suite.ctx, mock.MatchedBy(func(pairs []gateways.CurrencyPair) bool {
		return len(pairs) == len(domain.CryptoRails())
	})).Return(rates, nil).Once()
	suite.mockRepo.On("SaveSnapshot", suite.ctx, mock.MatchedBy(func(s domain.FxSnapshot) bool {
		return s.Asset == "SOL"
	})).Return(&savedSOL, nil).Once()
	suite.mockRepo.On("SaveSnapshot", suite.ctx, mock.MatchedBy(func(s domain.FxSnapshot) bool {
		return s.Asset == "USDC"
	})).Return(&savedUSDC, nil).Once()

	snapshots, err := suite.service.CaptureAllCreationSnapshots(suite.ctx, suite.paymentID, "AUD")

	suite.Require().NoError(err)
	assert.Len(suite.T(), snapshots, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SnapshotServiceTestSuite) TestCaptureAllCreationSnapshots_NoneCaptured() {
	suite.mockRateSvc.On("GetRates", suite.ctx, mock.Anything).
		Return(map[string]*domain.ExchangeRate{}, nil).Once()

	_, err := suite.service.CaptureAllCreationSnapshots(suite.ctx, suite.paymentID, "AUD")

	assert.ErrorIs(suite.T(), err, apperrors.ErrRateUnavailable)
}

func (suite *SnapshotServiceTestSuite) TestCalculateRateVariance_ComparesPerAsset() {
	snapshots := []domain.FxSnapshot{
		suite.snapshot(domain.SnapshotCreation, "SOL", "200.00"),
		suite.snapshot(domain.SnapshotSettlement, "SOL", "231.50"),
		suite.snapshot(domain.SnapshotCreation, "USDC", "1.50"),
		suite.snapshot(domain.SnapshotSettlement, "USDC", "1.53"),
	}

	suite.mockRepo.On("ListSnapshotsByPayment", suite.ctx, suite.paymentID).Return(snapshots, nil).Once()

	variances, err := suite.service.CalculateRateVariance(suite.ctx, suite.paymentID)

	suite.Require().NoError(err)
	suite.Require().Len(variances, 2)

	byAsset := make(map[string]domain.RateVariance, len(variances))
	for _, v := range variances {
		byAsset[v.Asset] = v
	}
	// (231.50 - 200) / 200 = 0.1575
	assert.True(suite.T(), byAsset["SOL"].Variance.Equal(decimal.RequireFromString("0.1575")),
		"got %s", byAsset["SOL"].Variance)
	// (1.53 - 1.50) / 1.50 = 0.02
	assert.True(suite.T(), byAsset["USDC"].Variance.Equal(decimal.RequireFromString("0.02")),
		"got %s", byAsset["USDC"].Variance)
}

func (suite *SnapshotServiceTestSuite) TestCalculateRateVariance_MissingCreationSnapshot() {
	snapshots := []domain.FxSnapshot{
		suite.snapshot(domain.SnapshotSettlement, "SOL", "231.50"),
	}

	suite.mockRepo.On("ListSnapshotsByPayment", suite.ctx, suite.paymentID).Return(snapshots, nil).Once()

	_, err := suite.service.CalculateRateVariance(suite.ctx, suite.paymentID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrVarianceUnavailable)
}

func (suite *SnapshotServiceTestSuite) TestCalculateRateVariance_ZeroCreationRateIsUnusable() {
	snapshots := []domain.FxSnapshot{
		suite.snapshot(domain.SnapshotCreation, "AUDD", "0"),
		suite.snapshot(domain.SnapshotSettlement, "AUDD", "0.9998"),
	}

	suite.mockRepo.On("ListSnapshotsByPayment", suite.ctx, suite.paymentID).Return(snapshots, nil).Once()

	_, err := suite.service.CalculateRateVariance(suite.ctx, suite.paymentID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrVarianceUnavailable)
}

func TestSnapshotServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotServiceTestSuite))
}
