package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNPinsSessionTimeZone(t *testing.T) {
	got := dsn("app", "secret", "db", "3306", "hotel")
	assert.Equal(t,
		"app:secret@tcp(db:3306)/hotel?charset=utf8mb4&parseTime=true&loc=UTC&time_zone=%27%2B00%3A00%27",
		got)
}

func TestDSNOmitsEmptyPassword(t *testing.T) {
	got := dsn("app", "", "db", "3306", "hotel")
	assert.Equal(t,
		"app@tcp(db:3306)/hotel?charset=utf8mb4&parseTime=true&loc=UTC&time_zone=%27%2B00%3A00%27",
		got)
}
