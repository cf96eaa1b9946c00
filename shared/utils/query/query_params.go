package query

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListParams represents search and sort parameters for list endpoints
type ListParams struct {
	Search string
	Sort   SortParams
}

// SortParams represents sorting parameters
type SortParams struct {
	Field string
	Order string
}

// ParseListParams extracts search/sort query parameters from Gin context.
// Format: search=term&sort[field]=email&sort[order]=asc
func ParseListParams(c *gin.Context) ListParams {
	sortField := c.Query("sort[field]")
	sortOrder := c.Query("sort[order]")

	if sortField == "" {
		sortField = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return ListParams{
		Search: c.Query("search"),
		Sort: SortParams{
			Field: sortField,
			Order: sortOrder,
		},
	}
}

// ApplySearch applies a case-insensitive substring match over the given
// fields
func ApplySearch(query *gorm.DB, search string, searchFields []string) *gorm.DB {
	if search == "" || len(searchFields) == 0 {
		return query
	}

	conditions := make([]string, len(searchFields))
	args := make([]interface{}, len(searchFields))

	for i, field := range searchFields {
		conditions[i] = fmt.Sprintf("LOWER(%s) LIKE ?", field)
		args[i] = "%" + strings.ToLower(search) + "%"
	}

	whereClause := strings.Join(conditions, " OR ")
	return query.Where(whereClause, args...)
}

// ApplySort applies sorting restricted to an allow-list of fields
func ApplySort(query *gorm.DB, sort SortParams, allowedSortFields map[string]string) *gorm.DB {
	if dbField, allowed := allowedSortFields[sort.Field]; allowed {
		orderClause := fmt.Sprintf("%s %s", dbField, strings.ToUpper(sort.Order))
		return query.Order(orderClause)
	}

	return query.Order("created_at DESC")
}
