package persistence

import (
	"fmt"
	"strings"

	"github.com/markethub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination, ordering and generic column filters
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter)

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := strings.ToLower(filter.OrderDir)
	if orderDir != "asc" {
		orderDir = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
}

// applyFilterWithoutPagination applies generic equality filters only
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status", "delivery_status", "vendor_id", "user_id", "payment_gateway":
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}
	return query
}
