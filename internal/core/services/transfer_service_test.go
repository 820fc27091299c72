package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/core/services"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.TransferSvcFacade
	ctx             context.Context

	source      domain.Account
	destination domain.Account
	daily       domain.Account
	userID      string
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	// The real engine runs inside the transfer so both legs exercise the same
	// validation and snapshot logic as single-account mutations.
	engine := services.NewLedgerService(suite.mockAccountRepo, suite.mockLedgerRepo)
	suite.service = services.NewTransferService(suite.mockAccountRepo, suite.mockLedgerRepo, engine)
	suite.ctx = context.Background()
	suite.userID = "user-op-1"

	suite.source = domain.Account{
		AccountID:     "11111111-1111-1111-1111-111111111111",
		Kind:          domain.KindCashBox,
		Name:          "till 1",
		CurrentAmount: decimal.NewFromInt(100),
		OwnerUserID:   suite.userID,
		Status:        domain.CashBoxOpen,
	}
	suite.destination = domain.Account{
		AccountID:     "22222222-2222-2222-2222-222222222222",
		Kind:          domain.KindMoneyBox,
		Name:          "Main treasury",
		Code:          domain.MoneyBoxCodeMain,
		CurrentAmount: decimal.NewFromInt(25),
	}
	suite.daily = domain.Account{
		AccountID:     "00000000-0000-0000-0000-00000000aaaa",
		Kind:          domain.KindMoneyBox,
		Name:          "Daily register",
		Code:          domain.MoneyBoxCodeDaily,
		CurrentAmount: decimal.NewFromInt(300),
	}
}

func (suite *TransferServiceTestSuite) expectTransferTx(accounts ...domain.Account) {
	locked := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		locked[a.AccountID] = a
	}
	suite.mockLedgerRepo.On("Begin", suite.ctx).Return(nil, nil)
	suite.mockLedgerRepo.On("Rollback", suite.ctx, mock.Anything).Return(nil)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", suite.ctx, mock.Anything, mock.AnythingOfType("[]string")).Return(locked, nil)
}

func (suite *TransferServiceTestSuite) TestTransfer_Success() {
	var legs []domain.Transaction
	var lockedIDs []string
	suite.mockLedgerRepo.On("Begin", suite.ctx).Return(nil, nil)
	suite.mockLedgerRepo.On("Rollback", suite.ctx, mock.Anything).Return(nil)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", suite.ctx, mock.Anything, mock.AnythingOfType("[]string")).
		Run(func(args mock.Arguments) { lockedIDs = args.Get(2).([]string) }).
		Return(map[string]domain.Account{
			suite.source.AccountID:      suite.source,
			suite.destination.AccountID: suite.destination,
		}, nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) { legs = append(legs, args.Get(2).(domain.Transaction)) }).
		Return(nil).Times(2)
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, suite.source.AccountID,
		decEq(decimal.NewFromInt(60)), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, suite.destination.AccountID,
		decEq(decimal.NewFromInt(65)), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedgerRepo.On("Commit", suite.ctx, mock.Anything).Return(nil).Once()

	pair, err := suite.service.Transfer(suite.ctx, suite.source.AccountID, suite.destination.AccountID,
		decimal.NewFromInt(40), "evening drop", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(pair)
	suite.Equal([]string{suite.source.AccountID, suite.destination.AccountID}, lockedIDs,
		"rows must be locked in ascending id order")

	suite.Equal(domain.TxnTransferOut, pair.Source.TransactionType)
	suite.Equal(domain.TxnTransferIn, pair.Destination.TransactionType)
	suite.True(pair.Source.Amount.Equal(pair.Destination.Amount))
	suite.Equal(pair.TransferID, pair.Source.ReferenceID)
	suite.Equal(pair.TransferID, pair.Destination.ReferenceID)
	suite.Equal(domain.RefTransfer, pair.Source.ReferenceType)
	suite.Equal(pair.Source.CreatedAt, pair.Destination.CreatedAt, "both legs share one timestamp")

	suite.True(pair.Source.BalanceAfter.Equal(decimal.NewFromInt(60)))
	suite.True(pair.Destination.BalanceAfter.Equal(decimal.NewFromInt(65)))

	suite.Require().Len(legs, 2)
	suite.Equal(legs[0].ReferenceID, legs[1].ReferenceID, "persisted legs must share the correlation id")
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_LockOrderIsSortedEitherDirection() {
	// Transfer in the opposite direction: lock order must stay ascending.
	var lockedIDs []string
	suite.mockLedgerRepo.On("Begin", suite.ctx).Return(nil, nil)
	suite.mockLedgerRepo.On("Rollback", suite.ctx, mock.Anything).Return(nil)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", suite.ctx, mock.Anything, mock.AnythingOfType("[]string")).
		Run(func(args mock.Arguments) { lockedIDs = args.Get(2).([]string) }).
		Return(map[string]domain.Account{
			suite.source.AccountID:      suite.source,
			suite.destination.AccountID: suite.destination,
		}, nil).Once()
	suite.mockLedgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Times(2)
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, mock.Anything,
		mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Times(2)
	suite.mockLedgerRepo.On("Commit", suite.ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.Transfer(suite.ctx, suite.destination.AccountID, suite.source.AccountID,
		decimal.NewFromInt(10), "", suite.userID)

	suite.Require().NoError(err)
	suite.Equal([]string{suite.source.AccountID, suite.destination.AccountID}, lockedIDs)
}

func (suite *TransferServiceTestSuite) TestTransfer_SameAccount() {
	_, err := suite.service.Transfer(suite.ctx, suite.source.AccountID, suite.source.AccountID,
		decimal.NewFromInt(10), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_NonPositiveAmount() {
	_, err := suite.service.Transfer(suite.ctx, suite.source.AccountID, suite.destination.AccountID,
		decimal.Zero, "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_SourceMissing() {
	suite.expectTransferTx(suite.destination)

	_, err := suite.service.Transfer(suite.ctx, suite.source.AccountID, suite.destination.AccountID,
		decimal.NewFromInt(10), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_InsufficientSourceBalance() {
	suite.expectTransferTx(suite.source, suite.destination)

	_, err := suite.service.Transfer(suite.ctx, suite.source.AccountID, suite.destination.AccountID,
		decimal.NewFromInt(500), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_SecondLegFailureRollsBack() {
	closedDest := suite.destination
	closedDest.Kind = domain.KindCashBox
	closedDest.Status = domain.CashBoxClosed
	suite.expectTransferTx(suite.source, closedDest)
	// First leg persists, then the closed destination rejects the second leg.
	suite.mockLedgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, suite.source.AccountID,
		mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.Transfer(suite.ctx, suite.source.AccountID, closedDest.AccountID,
		decimal.NewFromInt(10), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransferToDailyPool_ResolvesDestination() {
	suite.mockAccountRepo.On("FindMoneyBoxByCode", suite.ctx, domain.MoneyBoxCodeDaily).Return(&suite.daily, nil).Once()
	suite.expectTransferTx(suite.source, suite.daily)
	suite.mockLedgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Times(2)
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, mock.Anything,
		mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Times(2)
	suite.mockLedgerRepo.On("Commit", suite.ctx, mock.Anything).Return(nil).Once()

	pair, err := suite.service.TransferToDailyPool(suite.ctx, suite.source.AccountID,
		decimal.NewFromInt(40), "shift drop", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.daily.AccountID, pair.Destination.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransferFromDailyPool_ResolvesSource() {
	suite.mockAccountRepo.On("FindMoneyBoxByCode", suite.ctx, domain.MoneyBoxCodeDaily).Return(&suite.daily, nil).Once()
	suite.expectTransferTx(suite.daily, suite.source)
	suite.mockLedgerRepo.On("SaveTransactionInTx", suite.ctx, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Times(2)
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", suite.ctx, mock.Anything, mock.Anything,
		mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Times(2)
	suite.mockLedgerRepo.On("Commit", suite.ctx, mock.Anything).Return(nil).Once()

	pair, err := suite.service.TransferFromDailyPool(suite.ctx, suite.source.AccountID,
		decimal.NewFromInt(20), "float top-up", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.daily.AccountID, pair.Source.AccountID)
	suite.Equal(suite.source.AccountID, pair.Destination.AccountID)
}

func (suite *TransferServiceTestSuite) TestTransferToMoneyBox_UnknownCode() {
	suite.mockAccountRepo.On("FindMoneyBoxByCode", suite.ctx, "petty").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.TransferToMoneyBox(suite.ctx, suite.source.AccountID, "petty",
		decimal.NewFromInt(10), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func TestTransferService(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
