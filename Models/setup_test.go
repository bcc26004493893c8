package Models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database, migrates the schema,
// and points the package-level DB at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, MigrateAll(db))

	prev := DB
	DB = db
	t.Cleanup(func() { DB = prev })

	return db
}

// The raw queries spell out table and column names; the schema has to match
// them, not the naming strategy's initialism splits (ip_d_admissions, uh_id).
func TestMigratedSchemaMatchesRawQueryNames(t *testing.T) {
	db := setupTestDB(t)

	assert.True(t, db.Migrator().HasTable("ipd_admissions"))
	assert.False(t, db.Migrator().HasTable("ip_d_admissions"))

	assert.True(t, db.Migrator().HasColumn(&Patient{}, "uhid"))
	assert.True(t, db.Migrator().HasColumn(&IPDAdmission{}, "uhid"))
	assert.True(t, db.Migrator().HasColumn(&OPDRegistration{}, "uhid"))
	assert.True(t, db.Migrator().HasColumn(&ChargeSheetEntry{}, "ipd_admission_id"))
	assert.True(t, db.Migrator().HasColumn(&Payment{}, "ipd_admission_id"))
	assert.True(t, db.Migrator().HasColumn(&DischargeSummary{}, "ipd_admission_id"))
}
