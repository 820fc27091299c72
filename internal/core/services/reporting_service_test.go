package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/core/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingSvcFacade
	ctx               context.Context

	account domain.Account
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockAccountRepo, suite.mockReportingRepo)
	suite.ctx = context.Background()

	suite.account = domain.Account{
		AccountID:     "11111111-1111-1111-1111-111111111111",
		Kind:          domain.KindCashBox,
		Name:          "till 1",
		CurrentAmount: decimal.NewFromInt(100),
		Status:        domain.CashBoxOpen,
	}
}

func (suite *ReportingServiceTestSuite) TestSummary_Success() {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	summary := &portsrepo.AccountSummary{
		AccountID:        suite.account.AccountID,
		From:             &from,
		To:               &to,
		TotalCredits:     decimal.NewFromInt(250),
		TotalDebits:      decimal.NewFromInt(90),
		TransactionCount: 12,
		ByType: map[domain.TransactionType]decimal.Decimal{
			domain.TxnSale:    decimal.NewFromInt(250),
			domain.TxnExpense: decimal.NewFromInt(-90),
		},
	}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockReportingRepo.On("SummarizeAccount", suite.ctx, suite.account.AccountID, &from, &to).
		Return(summary, nil).Once()

	resp, err := suite.service.Summary(suite.ctx, dto.SummaryParams{
		AccountID: suite.account.AccountID,
		From:      &from,
		To:        &to,
	})

	suite.Require().NoError(err)
	suite.True(resp.NetChange.Equal(decimal.NewFromInt(160)), "net change is credits minus debits")
	suite.Equal(int64(12), resp.TransactionCount)
	suite.True(resp.ByType[domain.TxnExpense].Equal(decimal.NewFromInt(-90)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestSummary_InvalidPeriod() {
	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.Summary(suite.ctx, dto.SummaryParams{
		AccountID: suite.account.AccountID,
		From:      &from,
		To:        &to,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "SummarizeAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestSummary_AccountNotFound() {
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Summary(suite.ctx, dto.SummaryParams{AccountID: "missing"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReportingServiceTestSuite) TestOverview_SumsBalances() {
	rows := []portsrepo.OverviewRow{
		{
			Account:          suite.account,
			TotalCredits:     decimal.NewFromInt(180),
			TotalDebits:      decimal.NewFromInt(80),
			TransactionCount: 9,
		},
		{
			Account: domain.Account{
				AccountID:     "22222222-2222-2222-2222-222222222222",
				Kind:          domain.KindMoneyBox,
				Name:          "Main treasury",
				CurrentAmount: decimal.NewFromInt(900),
			},
			TransactionCount: 0,
		},
	}
	suite.mockReportingRepo.On("Overview", suite.ctx).Return(rows, nil).Once()

	resp, err := suite.service.Overview(suite.ctx)

	suite.Require().NoError(err)
	suite.Len(resp.Accounts, 2)
	suite.True(resp.TotalBalance.Equal(decimal.NewFromInt(1000)))
	suite.Equal(int64(0), resp.Accounts[1].TransactionCount, "zero-activity accounts still appear")
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
