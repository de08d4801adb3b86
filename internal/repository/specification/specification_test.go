package specification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type factRow struct {
	Id         uuid.UUID
	CaseFileId uuid.UUID
}

func (factRow) TableName() string { return "facts" }

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=dry"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestOrderByNullsLast(t *testing.T) {
	db := dryRunDB(t)
	caseFileID := uuid.New()

	var rows []factRow
	query := ByCaseFileID{CaseFileID: caseFileID}.Apply(db)
	query = OrderByNullsLast{Field: "event_date"}.Apply(query)
	stmt := query.Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "case_file_id = $1")
	assert.Contains(t, sql, "ORDER BY event_date ASC NULLS LAST")
	assert.Equal(t, []interface{}{caseFileID}, stmt.Vars)
}

func TestOrderByDesc(t *testing.T) {
	db := dryRunDB(t)

	var rows []factRow
	stmt := OrderBy{Field: "created_at", Desc: true}.Apply(db).Find(&rows).Statement

	assert.Contains(t, stmt.SQL.String(), "ORDER BY created_at DESC")
}
