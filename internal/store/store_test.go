package store

import (
	"testing"
	"time"

	"github.com/dukerupert/homebase/internal/database"
)

// testToday is a fixed calendar day for date-relative tests.
var testToday = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func day(offset int) string {
	return testToday.AddDate(0, 0, offset).Format("2006-01-02")
}

func setupTestStores(t *testing.T) *Stores {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}
