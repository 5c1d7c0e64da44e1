package dispatcher

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"minimarket/db"

	"golang.org/x/text/cases"
)

// ListParams are the paging, search and sort inputs of a list request.
// Zero values mean "not given".
type ListParams struct {
	Page   int
	Limit  int
	Offset *int
	Search string
	Sort   string
	Order  string
}

// Page is the list result envelope.
type Page struct {
	Data       []db.Row `json:"data"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

var DefaultPaging = Paging{DefaultLimit: 10, MaxLimit: 1000}

// normalize fills defaults: page 1, the configured limit, offset derived
// from page, sort "id" ascending.
func (p ListParams) normalize(paging Paging) (ListParams, int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = paging.DefaultLimit
	}
	if paging.MaxLimit > 0 && p.Limit > paging.MaxLimit {
		p.Limit = paging.MaxLimit
	}
	offset := (p.Page - 1) * p.Limit
	if p.Offset != nil && *p.Offset >= 0 {
		offset = *p.Offset
		p.Page = offset/p.Limit + 1
	}
	p.Search = strings.TrimSpace(p.Search)
	if p.Sort == "" {
		p.Sort = "id"
	}
	p.Order = strings.ToUpper(strings.TrimSpace(p.Order))
	if p.Order != "DESC" {
		p.Order = "ASC"
	}
	return p, offset
}

// foldString case-folds s. Casers are stateful, so each call gets its own.
func foldString(s string) string {
	return cases.Fold().String(s)
}

// Filter keeps rows where any string value contains term, case-insensitively.
// Non-string values never match.
func Filter(rows []db.Row, term string) []db.Row {
	if term == "" {
		return rows
	}
	needle := foldString(term)
	out := make([]db.Row, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			s, ok := v.(string)
			if ok && strings.Contains(foldString(s), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort orders rows by key in place. Numeric values compare numerically,
// everything else case-insensitively. Nulls and missing keys go last
// ascending and first descending. The sort is stable.
func Sort(rows []db.Row, key string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][key], rows[j][key])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compare orders nil after every value.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(foldString(text(a)), foldString(text(b)))
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Paginate slices rows to [offset, offset+limit).
func Paginate(rows []db.Row, offset, limit int) []db.Row {
	if offset >= len(rows) {
		return []db.Row{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
