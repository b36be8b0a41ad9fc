package services_test

import (
	"context"
	"testing"
	"time"

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

// MockSyncQueueService is a mock type for the SyncQueueSvcFacade interface
type MockSyncQueueService struct {
	mock.Mock
}

func (m *MockSyncQueueService) QueueSync(ctx context.Context, paymentID, organizationID string) (*domain.SyncJob, error) {
	args := m.Called(ctx, paymentID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncQueueService) Replay(ctx context.Context, paymentID string) (*domain.SyncJob, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncQueueService) GetPendingJobs(ctx context.Context, batchSize int) ([]domain.SyncJob, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncJob), args.Error(1)
}

func (m *MockSyncQueueService) ProcessQueue(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSyncQueueService) NextRetryTime(attempt int, now time.Time) *time.Time {
	args := m.Called(attempt, now)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*time.Time)
}

func (m *MockSyncQueueService) CategorizeError(message string) domain.ErrorCategory {
	args := m.Called(message)
	return args.Get(0).(domain.ErrorCategory)
}

type EventServiceTestSuite struct {
	suite.Suite
	mockPayments  *MockPaymentRepository
	mockSnapshots *MockSnapshotService
	mockQueue     *MockSyncQueueService
	service       portssvc.EventSvcFacade
	ctx           context.Context

	orgID   string
	payment domain.Payment
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.mockPayments = new(MockPaymentRepository)
	suite.mockSnapshots = new(MockSnapshotService)
	suite.mockQueue = new(MockSyncQueueService)
	suite.service = services.NewEventService(suite.mockPayments, suite.mockSnapshots, suite.mockQueue)
	suite.ctx = context.Background()

	suite.orgID = uuid.NewString()
	suite.payment = domain.Payment{
		PaymentID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Amount:         decimal.RequireFromString("150.00"),
		CurrencyCode:   "AUD",
		Status:         domain.PaymentOpen,
	}
}

func (suite *EventServiceTestSuite) cryptoEvent(rail domain.Rail, token string) domain.PaymentEvent {
	return domain.PaymentEvent{
		PaymentID:    suite.payment.PaymentID,
		Rail:         rail,
		Amount:       decimal.RequireFromString("150.00"),
		CurrencyCode: token,
		OccurredAt:   time.Now().UTC(),
		Crypto:       &domain.CryptoConfirmation{Token: token, TxSignature: "3fGhsig"},
	}
}

func (suite *EventServiceTestSuite) TestHandlePaymentCreated_CapturesBaseline() {
	captured := []domain.FxSnapshot{
		{SnapshotID: uuid.NewString(), Asset: "SOL"},
		{SnapshotID: uuid.NewString(), Asset: "USDC"},
	}

	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()
	suite.mockSnapshots.On("CaptureAllCreationSnapshots", suite.ctx, suite.payment.PaymentID, "AUD").Return(captured, nil).Once()

	err := suite.service.HandlePaymentCreated(suite.ctx, suite.payment.PaymentID, suite.orgID)

	suite.Require().NoError(err)
	suite.mockSnapshots.AssertExpectations(suite.T())
}

func (suite *EventServiceTestSuite) TestHandlePaymentCreated_WrongOrganization() {
	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()

	err := suite.service.HandlePaymentCreated(suite.ctx, suite.payment.PaymentID, "org-other")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockSnapshots.AssertNotCalled(suite.T(), "CaptureAllCreationSnapshots", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestHandlePaymentCreated_UnknownPayment() {
	suite.mockPayments.On("FindPaymentByID", suite.ctx, "pay-missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.HandlePaymentCreated(suite.ctx, "pay-missing", suite.orgID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EventServiceTestSuite) TestHandlePaymentCreated_NoRatesSurfaces() {
	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()
	suite.mockSnapshots.On("CaptureAllCreationSnapshots", suite.ctx, suite.payment.PaymentID, "AUD").
		Return(nil, apperrors.ErrRateUnavailable).Once()

	err := suite.service.HandlePaymentCreated(suite.ctx, suite.payment.PaymentID, suite.orgID)

	suite.Require().ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_CryptoFlow() {
	event := suite.cryptoEvent(domain.RailUSDC, "USDC")
	job := &domain.SyncJob{JobID: uuid.NewString(), PaymentID: suite.payment.PaymentID}
	snapshot := &domain.FxSnapshot{SnapshotID: uuid.NewString()}

	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()
	suite.mockPayments.On("SaveEvent", suite.ctx, mock.MatchedBy(func(e domain.PaymentEvent) bool {
		return e.EventID != "" &&
			e.EventType == domain.EventConfirmed &&
			e.OrganizationID == suite.orgID
	})).Return(nil).Once()
	suite.mockPayments.On("UpdatePaymentStatus", suite.ctx, suite.payment.PaymentID, domain.PaymentPaid, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockSnapshots.On("CaptureSettlementSnapshot", suite.ctx, suite.payment.PaymentID, "USDC", "AUD", "USDC").Return(snapshot, nil).Once()
	suite.mockQueue.On("QueueSync", suite.ctx, suite.payment.PaymentID, suite.orgID).Return(job, nil).Once()

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	suite.Require().NoError(err)
	suite.mockPayments.AssertExpectations(suite.T())
	suite.mockQueue.AssertExpectations(suite.T())
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_CardSkipsSnapshot() {
	event := domain.PaymentEvent{
		PaymentID:    suite.payment.PaymentID,
		Rail:         domain.RailCard,
		Amount:       decimal.RequireFromString("150.00"),
		CurrencyCode: "AUD",
		OccurredAt:   time.Now().UTC(),
		Card:         &domain.CardConfirmation{ProcessorChargeID: "ch_8842"},
	}
	job := &domain.SyncJob{JobID: uuid.NewString(), PaymentID: suite.payment.PaymentID}

	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()
	suite.mockPayments.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.PaymentEvent")).Return(nil).Once()
	suite.mockPayments.On("UpdatePaymentStatus", suite.ctx, suite.payment.PaymentID, domain.PaymentPaid, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockQueue.On("QueueSync", suite.ctx, suite.payment.PaymentID, suite.orgID).Return(job, nil).Once()

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	suite.Require().NoError(err)
	suite.mockSnapshots.AssertNotCalled(suite.T(), "CaptureSettlementSnapshot",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_SnapshotFailureDoesNotBlockEnqueue() {
	event := suite.cryptoEvent(domain.RailSOL, "SOL")
	job := &domain.SyncJob{JobID: uuid.NewString(), PaymentID: suite.payment.PaymentID}

	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()
	suite.mockPayments.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.PaymentEvent")).Return(nil).Once()
	suite.mockPayments.On("UpdatePaymentStatus", suite.ctx, suite.payment.PaymentID, domain.PaymentPaid, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockSnapshots.On("CaptureSettlementSnapshot", suite.ctx, suite.payment.PaymentID, "SOL", "AUD", "SOL").
		Return(nil, apperrors.ErrRateUnavailable).Once()
	suite.mockQueue.On("QueueSync", suite.ctx, suite.payment.PaymentID, suite.orgID).Return(job, nil).Once()

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	suite.Require().NoError(err)
	suite.mockQueue.AssertExpectations(suite.T())
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_AlreadyPaidSkipsStatusUpdate() {
	paid := suite.payment
	paid.Status = domain.PaymentPaid
	event := suite.cryptoEvent(domain.RailAUDD, "AUDD")
	job := &domain.SyncJob{JobID: uuid.NewString(), PaymentID: paid.PaymentID}

	suite.mockPayments.On("FindPaymentByID", suite.ctx, paid.PaymentID).Return(&paid, nil).Once()
	suite.mockPayments.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.PaymentEvent")).Return(nil).Once()
	suite.mockSnapshots.On("CaptureSettlementSnapshot", suite.ctx, paid.PaymentID, "AUDD", "AUD", "AUDD").
		Return(&domain.FxSnapshot{}, nil).Once()
	suite.mockQueue.On("QueueSync", suite.ctx, paid.PaymentID, suite.orgID).Return(job, nil).Once()

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	suite.Require().NoError(err)
	suite.mockPayments.AssertNotCalled(suite.T(), "UpdatePaymentStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_RejectsUnknownRail() {
	event := domain.PaymentEvent{PaymentID: suite.payment.PaymentID, Rail: domain.Rail("WIRE")}

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockPayments.AssertNotCalled(suite.T(), "FindPaymentByID", mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_RejectsCryptoWithoutTokenMetadata() {
	event := domain.PaymentEvent{PaymentID: suite.payment.PaymentID, Rail: domain.RailUSDT}

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_RejectsCardWithoutProcessorMetadata() {
	event := domain.PaymentEvent{PaymentID: suite.payment.PaymentID, Rail: domain.RailCard}

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *EventServiceTestSuite) TestHandlePaymentConfirmed_UnknownPayment() {
	event := suite.cryptoEvent(domain.RailUSDC, "USDC")

	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.HandlePaymentConfirmed(suite.ctx, event)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockQueue.AssertNotCalled(suite.T(), "QueueSync", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestListPaymentEvents_UnknownPayment() {
	suite.mockPayments.On("FindPaymentByID", suite.ctx, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.ListPaymentEvents(suite.ctx, "missing", 20, nil)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockPayments.AssertNotCalled(suite.T(), "ListEventsByPayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestListPaymentEvents_ReturnsPage() {
	events := []domain.PaymentEvent{
		{EventID: uuid.NewString(), PaymentID: suite.payment.PaymentID, EventType: domain.EventConfirmed},
	}
	token := "next-page"

	suite.mockPayments.On("FindPaymentByID", suite.ctx, suite.payment.PaymentID).Return(&suite.payment, nil).Once()
	suite.mockPayments.On("ListEventsByPayment", suite.ctx, suite.payment.PaymentID, 20, (*string)(nil)).
		Return(events, &token, nil).Once()

	page, next, err := suite.service.ListPaymentEvents(suite.ctx, suite.payment.PaymentID, 20, nil)

	suite.Require().NoError(err)
	assert.Len(suite.T(), page, 1)
	suite.Require().NotNil(next)
	assert.Equal(suite.T(), "next-page", *next)
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}
