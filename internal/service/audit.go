package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
)

// LoanTapeAuditService runs descriptive data quality checks over the loan
// tape snapshot. The findings are diagnostics for report consumers; they
// never block or alter metric computation.
type LoanTapeAuditService interface {
	AuditLoanTape(ctx context.Context) (*dto.LoanTapeAuditResponse, error)
}

type loanTapeAuditService struct {
	ServiceParams
}

// NewLoanTapeAuditService creates a new loan tape audit service
func NewLoanTapeAuditService(params ServiceParams) LoanTapeAuditService {
	return &loanTapeAuditService{ServiceParams: params}
}

func (s *loanTapeAuditService) AuditLoanTape(ctx context.Context) (*dto.LoanTapeAuditResponse, error) {
	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.LoanTapeAuditResponse{TotalRecords: len(records)}

	var negativeBalance []string
	var zeroBalanceRevenue []string

	for _, r := range records {
		flagged := false

		if r.DailyAvgBalance.IsNegative() {
			resp.NegativeBalanceCount++
			negativeBalance = append(negativeBalance, r.AccountID)
			flagged = true
		}
		if r.DailyAvgBalance.IsZero() && !r.Revenue().IsZero() {
			resp.ZeroBalanceRevenueCount++
			zeroBalanceRevenue = append(zeroBalanceRevenue, r.AccountID)
			flagged = true
		}
		if r.SnapshotBeginningAt.IsZero() || r.SnapshotEndingAt.IsZero() {
			resp.MissingPeriodDatesCount++
			flagged = true
		}
		if r.AccountActivatedAt.IsZero() {
			resp.MissingActivationCount++
			flagged = true
		}
		if !r.AccountType.IsValid() {
			resp.UnknownAccountTypeCount++
			flagged = true
		}

		if !flagged {
			resp.CleanRecords++
		}
	}

	// One account can be flagged in several periods; report it once.
	resp.NegativeBalanceAccounts = lo.Uniq(negativeBalance)
	resp.ZeroBalanceRevenueAccounts = lo.Uniq(zeroBalanceRevenue)

	s.Logger.Infow("audited loan tape",
		"records", resp.TotalRecords,
		"clean", resp.CleanRecords,
		"negative_balance", resp.NegativeBalanceCount,
		"zero_balance_with_revenue", resp.ZeroBalanceRevenueCount)

	return resp, nil
}
