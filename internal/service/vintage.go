package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// vintageLimitFactor estimates a credit limit from the balance for rows
// whose limit column is empty.
var vintageLimitFactor = decimal.NewFromFloat(1.2)

// businessIDDisplayLen is how many leading characters of a business
// identifier survive into report rows.
const businessIDDisplayLen = 8

// BusinessVintageService aggregates the loan tape by business and activation
// month.
type BusinessVintageService interface {
	// ComputeBusinessVintages returns one row per (business, vintage month)
	// group, ordered by business ascending, then status priority, then
	// newest vintage first. Records without an activation date have no
	// vintage and are excluded.
	ComputeBusinessVintages(ctx context.Context) (*dto.BusinessVintagesResponse, error)
}

type businessVintageService struct {
	ServiceParams
}

// NewBusinessVintageService creates a new business vintage service
func NewBusinessVintageService(params ServiceParams) BusinessVintageService {
	return &businessVintageService{ServiceParams: params}
}

type vintageKey struct {
	businessID string
	month      types.MonthKey
}

func (s *businessVintageService) ComputeBusinessVintages(ctx context.Context) (*dto.BusinessVintagesResponse, error) {
	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[vintageKey][]*loantape.AccountPeriodRecord)
	for _, r := range records {
		month, ok := r.VintageMonth()
		if !ok {
			continue
		}
		key := vintageKey{businessID: r.BusinessID, month: month}
		groups[key] = append(groups[key], r)
	}

	rows := make([]dto.BusinessVintageRow, 0, len(groups))
	for key, group := range groups {
		rows = append(rows, buildVintageRow(key, group))
	}

	// Row order is a display contract: business asc, status priority asc,
	// vintage month desc.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BusinessID != rows[j].BusinessID {
			return rows[i].BusinessID < rows[j].BusinessID
		}
		ri, rj := rows[i].Status.PriorityRank(), rows[j].Status.PriorityRank()
		if ri != rj {
			return ri < rj
		}
		return rows[j].VintageMonth.Before(rows[i].VintageMonth)
	})

	s.Logger.Infow("computed business vintages",
		"rows", len(rows),
		"records", len(records))

	return &dto.BusinessVintagesResponse{Vintages: rows, Total: len(rows)}, nil
}

func buildVintageRow(key vintageKey, group []*loantape.AccountPeriodRecord) dto.BusinessVintageRow {
	row := dto.BusinessVintageRow{
		BusinessID:        key.businessID,
		BusinessDisplayID: shortBusinessID(key.businessID),
		VintageMonth:      key.month,
		VintageLabel:      key.month.Label(),
		AccountCount:      len(group),
	}

	ageSum := decimal.Zero
	ageCount := int64(0)
	aprSum := decimal.Zero
	aprCount := int64(0)
	statuses := make([]types.AccountStatus, 0, len(group))
	typeSet := make(map[string]struct{})

	for _, r := range group {
		row.TotalBalance = row.TotalBalance.Add(r.DailyAvgBalance)
		row.TotalRevenue = row.TotalRevenue.Add(r.Revenue())
		row.TotalCreditLimit = row.TotalCreditLimit.Add(recordLimit(r))
		statuses = append(statuses, r.EndingStatus)
		typeSet[r.AccountType.String()] = struct{}{}

		if age, ok := r.AgeMonths(); ok {
			ageSum = ageSum.Add(age)
			ageCount++
		}
		if apr, ok := r.EstimatedAPR(); ok {
			aprSum = aprSum.Add(apr)
			aprCount++
		}
	}

	if ageCount > 0 {
		row.AvgAccountAgeMonths = ageSum.Div(decimal.NewFromInt(ageCount)).Round(1)
	}
	if aprCount > 0 {
		row.AvgEstimatedAPR = aprSum.Div(decimal.NewFromInt(aprCount)).Round(2)
	}
	row.Status = types.ResolvePriorityStatus(statuses)

	row.AccountTypes = make([]string, 0, len(typeSet))
	for t := range typeSet {
		row.AccountTypes = append(row.AccountTypes, t)
	}
	sort.Strings(row.AccountTypes)

	return row
}

// recordLimit prefers the tape's stated limit and falls back to the balance
// proxy for rows without one.
func recordLimit(r *loantape.AccountPeriodRecord) decimal.Decimal {
	if r.EndingLimit.IsPositive() {
		return r.EndingLimit
	}
	return r.DailyAvgBalance.Mul(vintageLimitFactor)
}

func shortBusinessID(id string) string {
	runes := []rune(id)
	if len(runes) > businessIDDisplayLen {
		runes = runes[:businessIDDisplayLen]
	}
	return string(runes) + "…"
}
