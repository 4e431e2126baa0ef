// Package option provides composable gorm query modifiers shared by
// the repositories.
package option

import (
	"fmt"
	"strings"
	"time"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

type Operator string

const (
	EQ   Operator = "="
	GT   Operator = ">"
	GTE  Operator = ">="
	LT   Operator = "<"
	LTE  Operator = "<="
	LIKE Operator = "LIKE"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator adds a single comparison condition. The field name is
// trusted; callers must never pass user input as Field.
func ApplyOperator(c Condition) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(c.Field) == "" {
			return db
		}
		return db.Where(fmt.Sprintf("%s %s ?", c.Field, c.Operator), c.Value)
	})
}

type QuerySortBy struct {
	Field     string
	Direction string
	Allow     map[string]bool
}

// WithSortBy orders the query by an allow-listed column, defaulting to
// created_at desc.
func WithSortBy(s QuerySortBy) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(s.Field)
		if field == "" || (s.Allow != nil && !s.Allow[field]) {
			field = "created_at"
		}
		direction := strings.ToLower(strings.TrimSpace(s.Direction))
		if direction != "asc" {
			direction = "desc"
		}
		return db.Order(field + " " + direction)
	})
}

// ApplyPagination applies cursor pagination. One extra row beyond the
// page size is fetched so callers can detect a next page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = 10
		}
		if size > 250 {
			size = 250
		}

		if token := strings.TrimSpace(page.PageToken); token != "" {
			cursor, err := pagination.DecodeCursor(token)
			if err == nil && cursor != nil && cursor.CreatedAt != "" {
				if ts, parseErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt); parseErr == nil {
					db = db.Where("created_at < ?", ts)
				}
			}
		}

		return db.Limit(size + 1)
	})
}
