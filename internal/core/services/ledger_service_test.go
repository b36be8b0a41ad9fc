package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveEntryPair(ctx context.Context, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntriesByAccountCode(ctx context.Context, organizationID, accountCode string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, organizationID, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByPayment(ctx context.Context, paymentID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) HasEntriesForPayment(ctx context.Context, paymentID string) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLedgerRepository
	service  portssvc.LedgerSvcFacade
	ctx      context.Context
	orgID    string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockRepo, decimal.RequireFromString("0.01"))
	suite.ctx = context.Background()
	suite.orgID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) settlementPayment() (domain.Payment, domain.PaymentEvent) {
	payment := domain.Payment{
		PaymentID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Amount:         decimal.RequireFromString("150.00"),
		CurrencyCode:   "AUD",
		Status:         domain.PaymentPaid,
	}
	event := domain.PaymentEvent{
		EventID:   uuid.NewString(),
		PaymentID: payment.PaymentID,
		EventType: domain.EventConfirmed,
		Rail:      domain.RailUSDC,
	}
	return payment, event
}

func (suite *LedgerServiceTestSuite) TestProvisionChart_CreatesFullChart() {
	expected := map[string]domain.AccountType{
		"CLR-CARD":                domain.Asset,
		"CLR-SOL":                 domain.Asset,
		"CLR-USDC":                domain.Asset,
		"CLR-USDT":                domain.Asset,
		"CLR-AUDD":                domain.Asset,
		domain.RevenueAccountCode: domain.Revenue,
	}
	for code, accountType := range expected {
		code, accountType := code, accountType
		suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.LedgerAccount) bool {
			return a.Code == code &&
				a.AccountType == accountType &&
				a.OrganizationID == suite.orgID &&
				a.CurrencyCode == "AUD" &&
				a.AccountID != ""
		})).Return(nil).Once()
	}

	err := suite.service.ProvisionChart(suite.ctx, suite.orgID, "AUD")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", len(expected))
}

func (suite *LedgerServiceTestSuite) TestProvisionChart_RepositoryErrorSurfaces() {
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(assert.AnError).Once()

	err := suite.service.ProvisionChart(suite.ctx, suite.orgID, "AUD")

	suite.Require().ErrorIs(err, assert.AnError)
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_WritesBalancedPair() {
	payment, event := suite.settlementPayment()

	suite.mockRepo.On("HasEntriesForPayment", suite.ctx, payment.PaymentID).Return(false, nil).Once()
	suite.mockRepo.On("SaveEntryPair", suite.ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		if len(entries) != 2 {
			return false
		}
		debit, credit := entries[0], entries[1]
		return debit.EntryType == domain.Debit &&
			debit.AccountCode == "CLR-USDC" &&
			debit.Amount.Equal(payment.Amount) &&
			credit.EntryType == domain.Credit &&
			credit.AccountCode == domain.RevenueAccountCode &&
			credit.Amount.Equal(payment.Amount) &&
			debit.PaymentID == payment.PaymentID &&
			credit.PaymentID == payment.PaymentID
	})).Return(nil).Once()

	err := suite.service.RecordSettlement(suite.ctx, payment, event)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_SkipsWhenEntriesExist() {
	payment, event := suite.settlementPayment()

	suite.mockRepo.On("HasEntriesForPayment", suite.ctx, payment.PaymentID).Return(true, nil).Once()

	err := suite.service.RecordSettlement(suite.ctx, payment, event)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntryPair", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_RejectsUnknownRail() {
	payment, event := suite.settlementPayment()
	event.Rail = domain.Rail("WIRE")

	suite.mockRepo.On("HasEntriesForPayment", suite.ctx, payment.PaymentID).Return(false, nil).Once()

	err := suite.service.RecordSettlement(suite.ctx, payment, event)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntryPair", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestComputeBalance_AppliesSignConvention() {
	account := &domain.LedgerAccount{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Code:           "CLR-SOL",
		AccountType:    domain.Asset,
	}
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), AccountCode: "CLR-SOL", EntryType: domain.Debit, Amount: decimal.RequireFromString("300.00")},
		{EntryID: uuid.NewString(), AccountCode: "CLR-SOL", EntryType: domain.Credit, Amount: decimal.RequireFromString("120.00")},
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.orgID, "CLR-SOL").Return(account, nil).Once()
	suite.mockRepo.On("FindEntriesByAccountCode", suite.ctx, suite.orgID, "CLR-SOL").Return(entries, nil).Once()

	balance, err := suite.service.ComputeBalance(suite.ctx, suite.orgID, "CLR-SOL")

	suite.Require().NoError(err)
	assert.True(suite.T(), balance.Equal(decimal.RequireFromString("180.00")), "got %s", balance)
}

func (suite *LedgerServiceTestSuite) TestComputeBalance_UnknownAccount() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.orgID, "CLR-XYZ").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ComputeBalance(suite.ctx, suite.orgID, "CLR-XYZ")

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestListBalances_CoversWholeChart() {
	accounts := []domain.LedgerAccount{
		{AccountID: uuid.NewString(), OrganizationID: suite.orgID, Code: "CLR-CARD", AccountType: domain.Asset},
		{AccountID: uuid.NewString(), OrganizationID: suite.orgID, Code: domain.RevenueAccountCode, AccountType: domain.Revenue},
	}

	suite.mockRepo.On("ListAccounts", suite.ctx, suite.orgID).Return(accounts, nil).Once()
	suite.mockRepo.On("FindEntriesByAccountCode", suite.ctx, suite.orgID, "CLR-CARD").
		Return([]domain.LedgerEntry{
			{EntryID: uuid.NewString(), AccountCode: "CLR-CARD", EntryType: domain.Debit, Amount: decimal.RequireFromString("90.00")},
		}, nil).Once()
	suite.mockRepo.On("FindEntriesByAccountCode", suite.ctx, suite.orgID, domain.RevenueAccountCode).
		Return([]domain.LedgerEntry{
			{EntryID: uuid.NewString(), AccountCode: domain.RevenueAccountCode, EntryType: domain.Credit, Amount: decimal.RequireFromString("90.00")},
		}, nil).Once()

	balances, err := suite.service.ListBalances(suite.ctx, suite.orgID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	assert.True(suite.T(), balances[0].Balance.Equal(decimal.RequireFromString("90.00")))
	assert.True(suite.T(), balances[1].Balance.Equal(decimal.RequireFromString("90.00")))
}

func (suite *LedgerServiceTestSuite) TestVerifyPaymentEntries_BalancedPasses() {
	paymentID := uuid.NewString()
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), EntryType: domain.Debit, Amount: decimal.RequireFromString("150.00"), PaymentID: paymentID},
		{EntryID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.RequireFromString("150.00"), PaymentID: paymentID},
	}

	suite.mockRepo.On("FindEntriesByPayment", suite.ctx, paymentID).Return(entries, nil).Once()

	assert.NoError(suite.T(), suite.service.VerifyPaymentEntries(suite.ctx, paymentID))
}

func (suite *LedgerServiceTestSuite) TestVerifyPaymentEntries_ImbalanceSurfaces() {
	paymentID := uuid.NewString()
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), EntryType: domain.Debit, Amount: decimal.RequireFromString("150.00"), PaymentID: paymentID},
		{EntryID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.RequireFromString("120.00"), PaymentID: paymentID},
	}

	suite.mockRepo.On("FindEntriesByPayment", suite.ctx, paymentID).Return(entries, nil).Once()

	err := suite.service.VerifyPaymentEntries(suite.ctx, paymentID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnbalancedEntries)
}

func (suite *LedgerServiceTestSuite) TestVerifyPaymentEntries_NoEntriesIsClean() {
	paymentID := uuid.NewString()

	suite.mockRepo.On("FindEntriesByPayment", suite.ctx, paymentID).Return([]domain.LedgerEntry{}, nil).Once()

	assert.NoError(suite.T(), suite.service.VerifyPaymentEntries(suite.ctx, paymentID))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
