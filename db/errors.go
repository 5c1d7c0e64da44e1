package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrorFields extracts driver diagnostics for structured logs.
func ErrorFields(err error) []interface{} {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		fields := []interface{}{"sqlstate", string(pqErr.Code), "condition", pqErr.Code.Name()}
		if pqErr.Constraint != "" {
			fields = append(fields, "constraint", pqErr.Constraint)
		}
		if pqErr.Detail != "" {
			fields = append(fields, "detail", pqErr.Detail)
		}
		return fields
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return []interface{}{"mysql_errno", myErr.Number}
	}
	return nil
}
