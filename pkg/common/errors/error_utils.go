package errors

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// region error handling helpers

const mysqlDuplicateEntry = 1062

// duplicateKeyPattern picks the index name out of a 1062 message, with or
// without the "table." prefix newer MySQL versions add.
var duplicateKeyPattern = regexp.MustCompile(`for key '(?:[^'.]+\.)?([^']+)'`)

// WrapGormError turns a raw GORM/MySQL error into an *AppError.
//   - gorm.ErrRecordNotFound -> KindNotFound
//   - MySQL 1062 / gorm.ErrDuplicatedKey -> KindConflict naming the field(s)
//   - everything else -> KindUnexpected, original error kept for logs
func WrapGormError(rawErr error) error {
	if rawErr == nil {
		return nil
	}
	if _, ok := As(rawErr); ok {
		return rawErr
	}

	if errors.Is(rawErr, gorm.ErrRecordNotFound) {
		return NotFound("record not found")
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return Conflict(DuplicateFields(mysqlErr.Message)...)
	}
	if errors.Is(rawErr, gorm.ErrDuplicatedKey) {
		return Conflict("unknown")
	}

	return Unexpected("database operation failed", rawErr)
}

// IsDuplicateError reports whether err is a uniqueness violation.
func IsDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrConflict)
}

// DuplicateFields resolves the client-facing field names from a MySQL
// duplicate-entry message. Unique indexes are named idx_<table>_<column>.
func DuplicateFields(message string) []string {
	m := duplicateKeyPattern.FindStringSubmatch(message)
	if m == nil {
		return []string{"unknown"}
	}
	index := m[1]
	if !strings.HasPrefix(index, "idx_") {
		return []string{index}
	}
	parts := strings.SplitN(strings.TrimPrefix(index, "idx_"), "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return []string{index}
	}
	return []string{lowerCamel(parts[1])}
}

// lowerCamel converts a snake_case column to the JSON field name.
func lowerCamel(column string) string {
	words := strings.Split(column, "_")
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}

// endregion
