package persistence

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}),
		&gorm.Config{SkipDefaultTransaction: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return &Database{DB: gormDB}, mock
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()
	require.NoError(t, db.Ping())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err := db.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_PoolStatsAndClose(t *testing.T) {
	db, mock := newMockDatabase(t)

	stats := db.PoolStats()
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)

	mock.ExpectClose()
	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerScope_SQL(t *testing.T) {
	type Job struct {
		ID      uuid.UUID
		OwnerID uuid.UUID
		Title   string
	}
	db, mock := newMockDatabase(t)
	ownerID := uuid.New()

	// scopes are applied at execution, after the chained Where
	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE title = \$1 AND owner_id = \$2`).
		WithArgs("Manual", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title"}).AddRow(uuid.New(), ownerID, "Manual"))

	var jobs []Job
	require.NoError(t, db.DB.Scopes(OwnerScope(ownerID)).Where("title = ?", "Manual").Find(&jobs).Error)
	assert.Len(t, jobs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
