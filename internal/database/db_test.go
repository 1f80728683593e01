package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn(Options{User: "app", Pass: "s3cret", Host: "db.local", Port: "3306", Name: "rental"})
	assert.Equal(t, "app:s3cret@tcp(db.local:3306)/rental?charset=utf8mb4&parseTime=true&loc=UTC", got)
}

func TestDSNWithoutPassword(t *testing.T) {
	// No password means no colon segment, not an empty one.
	got := dsn(Options{User: "app", Host: "localhost", Port: "3306", Name: "rental"})
	assert.Equal(t, "app@tcp(localhost:3306)/rental?charset=utf8mb4&parseTime=true&loc=UTC", got)
}
