package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

var ErrInvalidPeriod = fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)

// reportingService serves the read-only aggregate views. It holds no locks and
// reads committed state only; a report never observes a half-applied transfer.
type reportingService struct {
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates the reporting service.
func NewReportingService(accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// Summary implements portssvc.ReportingSvcFacade.
func (s *reportingService) Summary(ctx context.Context, params dto.SummaryParams) (*dto.AccountSummaryResponse, error) {
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, ErrInvalidPeriod
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, params.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", ErrAccountNotFound, params.AccountID)
		}
		return nil, err
	}

	summary, err := s.reportingRepo.SummarizeAccount(ctx, params.AccountID, params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize account: %w", err)
	}
	resp := dto.ToAccountSummaryResponse(summary)
	return &resp, nil
}

// Overview implements portssvc.ReportingSvcFacade.
func (s *reportingService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	rows, err := s.reportingRepo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build overview: %w", err)
	}
	resp := dto.ToOverviewResponse(rows)
	return &resp, nil
}
