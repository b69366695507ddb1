package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportRow is one normalized row of a bulk sales import. The CSV (or
// any other) parser is an external collaborator; by the time rows
// reach this service they are already in the same line shape consumed
// by manual entry.
type ImportRow struct {
	ProductCode string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Date        time.Time
}

// ImportGroupResult reports the outcome of one date-group
type ImportGroupResult struct {
	Date       time.Time `json:"date"`
	LineCount  int       `json:"line_count"`
	Succeeded  bool      `json:"succeeded"`
	SaleNumber string    `json:"sale_number,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ImportResult is the overall outcome of a bulk import
type ImportResult struct {
	Groups    []ImportGroupResult `json:"groups"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// ImportService executes bulk sales imports. Rows are grouped by date
// and each group runs as one coordinator transaction, so a failing
// group never rolls back groups that already committed; the result
// reports per-group success or failure with the exact shortfall.
type ImportService struct {
	sales       *SaleService
	idempotency shared.IdempotencyStore
	maxRows     int
	ttl         time.Duration
	logger      *zap.Logger
}

const (
	// defaultImportMaxRows caps a single import submission
	defaultImportMaxRows = 10000
	// defaultImportIdempotencyTTL is how long a processed key is remembered
	defaultImportIdempotencyTTL = 24 * time.Hour
)

// NewImportService creates a new import service
func NewImportService(sales *SaleService, idempotency shared.IdempotencyStore, logger *zap.Logger) *ImportService {
	return &ImportService{
		sales:       sales,
		idempotency: idempotency,
		maxRows:     defaultImportMaxRows,
		ttl:         defaultImportIdempotencyTTL,
		logger:      logger,
	}
}

// SetLimits overrides the row cap and idempotency retention
func (s *ImportService) SetLimits(maxRows int, ttl time.Duration) {
	if maxRows > 0 {
		s.maxRows = maxRows
	}
	if ttl > 0 {
		s.ttl = ttl
	}
}

// ImportSales runs a bulk import on behalf of the acting user. An
// optional idempotencyKey guards against the same file being submitted
// twice (e.g., a client retry after a timeout). The key is only burned
// once the import has run to completion; a submission rejected up front
// or aborted mid-flight leaves the key free for a retry.
func (s *ImportService) ImportSales(ctx context.Context, actor Actor, idempotencyKey string, rows []ImportRow) (*ImportResult, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Import must contain at least one row")
	}
	if len(rows) > s.maxRows {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Import exceeds the maximum of %d rows", s.maxRows))
	}

	guarded := idempotencyKey != "" && s.idempotency != nil
	storeKey := "import:sales:" + idempotencyKey
	if guarded {
		processed, err := s.idempotency.IsProcessed(ctx, storeKey)
		if err != nil {
			return nil, err
		}
		if processed {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Import with this idempotency key was already processed")
		}
	}

	result := &ImportResult{}
	for _, group := range groupByDate(rows) {
		groupResult := ImportGroupResult{Date: group.date, LineCount: len(group.lines)}

		sale, err := s.sales.CreateSale(ctx, actor, group.date, group.lines)
		if err != nil {
			groupResult.Succeeded = false
			groupResult.ErrorCode, groupResult.Error = describeError(err)
			result.Failed++
			s.logger.Warn("import date-group failed",
				zap.Time("date", group.date),
				zap.Int("lines", len(group.lines)),
				zap.Error(err),
			)
		} else {
			groupResult.Succeeded = true
			groupResult.SaleNumber = sale.SaleNumber
			result.Succeeded++
		}
		result.Groups = append(result.Groups, groupResult)
	}

	// Per-group outcomes above are final, even when some groups failed,
	// so the key burns only now that every group has been attempted.
	if guarded {
		if _, err := s.idempotency.MarkProcessed(ctx, storeKey, s.ttl); err != nil {
			s.logger.Warn("failed to record idempotency key",
				zap.String("key", idempotencyKey),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("bulk import finished",
		zap.String("imported_by", actor.Username),
		zap.Int("groups_succeeded", result.Succeeded),
		zap.Int("groups_failed", result.Failed),
	)
	return result, nil
}

type dateGroup struct {
	date  time.Time
	lines []Line
}

// groupByDate buckets rows into one group per calendar date, keeping
// the first-seen order of dates
func groupByDate(rows []ImportRow) []dateGroup {
	index := make(map[time.Time]int)
	groups := make([]dateGroup, 0)

	for _, row := range rows {
		day := time.Date(row.Date.Year(), row.Date.Month(), row.Date.Day(), 0, 0, 0, 0, time.UTC)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, dateGroup{date: day})
		}
		groups[i].lines = append(groups[i].lines, Line{
			ProductCode: row.ProductCode,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice,
		})
	}
	return groups
}

// describeError extracts a stable code and message from a failure
func describeError(err error) (string, string) {
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		return "INSUFFICIENT_STOCK", insufficient.Error()
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message
	}
	return "INTERNAL_ERROR", err.Error()
}
