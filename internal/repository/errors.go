// Package repository contains thin repositories over *sql.DB. Each maps
// MySQL driver errors into the sentinels that handlers and the auth core
// branch on: sql.ErrNoRows becomes auth.ErrNotFound and duplicate-key
// violations (MySQL error 1062) become auth.ErrDuplicateKey.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an update or delete targets a missing row.
var ErrNotFound = errors.New("not found")

// isDuplicateKey reports whether err is a MySQL unique-index violation.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
