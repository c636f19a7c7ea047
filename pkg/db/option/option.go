package option

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopkit/tradepost/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type Operator string

const (
	EQ  Operator = "="
	GTE Operator = ">="
	LTE Operator = "<="
)

// Condition is a single field comparison appended to the WHERE clause.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type conditionOption struct {
	cond Condition
}

func ApplyOperator(cond Condition) QueryOption {
	return conditionOption{cond: cond}
}

func WithCondition(field string, op Operator, value any) QueryOption {
	return conditionOption{cond: Condition{Field: field, Operator: op, Value: value}}
}

func (o conditionOption) Apply(db *gorm.DB) *gorm.DB {
	field := strings.TrimSpace(o.cond.Field)
	if field == "" {
		return db
	}
	op := o.cond.Operator
	if op == "" {
		op = EQ
	}
	return db.Where(fmt.Sprintf("%s %s ?", field, op), o.cond.Value)
}

// QuerySortBy restricts sorting to an allow-listed column set.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{SortBy: sortBy, OrderBy: orderBy, Allow: allow}
}

type sortOption struct {
	sort QuerySortBy
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return sortOption{sort: sort}
}

func (o sortOption) Apply(db *gorm.DB) *gorm.DB {
	column := strings.TrimSpace(o.sort.SortBy)
	if column == "" || !o.sort.Allow[column] {
		column = "created_at"
	}
	direction := strings.ToLower(strings.TrimSpace(o.sort.OrderBy))
	if direction != "asc" {
		direction = "desc"
	}
	return db.Order(fmt.Sprintf("%s %s, id %s", column, direction, direction))
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination applies the decoded cursor and fetches one row beyond the
// page size so callers can detect another page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(db *gorm.DB) *gorm.DB {
	size := o.page.PageSize
	if size <= 0 {
		size = 10
	}

	token := strings.TrimSpace(o.page.PageToken)
	if token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err == nil && cursor != nil {
			ts, terr := time.Parse(time.RFC3339, cursor.CreatedAt)
			id, ierr := snowflake.ParseString(cursor.ID)
			if terr == nil && ierr == nil {
				db = db.Where("created_at < ? OR (created_at = ? AND id < ?)", ts, ts, id)
			}
		}
	}

	return db.Limit(size + 1)
}
