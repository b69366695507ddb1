package persistence

import (
	"strings"

	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// validateSortOrder normalizes the sort direction to ASC or DESC.
// Defaults to DESC for anything unrecognized.
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField checks the sort column against a whitelist and falls
// back to the default. Sort columns end up concatenated into SQL, so
// only whitelisted names ever pass through.
func validateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// commonSortFields are present on every entity
var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

func mergeSortFields(extra ...string) map[string]bool {
	fields := make(map[string]bool, len(commonSortFields)+len(extra))
	for f := range commonSortFields {
		fields[f] = true
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// applyPagination applies page/page size offsets from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies whitelisted ordering from the filter
func applyOrdering(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	field := validateSortField(filter.OrderBy, allowedFields, defaultField)
	dir := validateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir)
}
