package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"MediDesk/Models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:controllers_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Models.MigrateAll(db))

	prev := Models.DB
	Models.DB = db
	t.Cleanup(func() { Models.DB = prev })

	return db
}

// postJSON runs a handler directly with a JSON body and returns the recorder.
func postJSON(t *testing.T, handler gin.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return recorder
}

// postJSONScoped runs a handler with the tenant keys the scope middleware
// would have installed.
func postJSONScoped(t *testing.T, handler gin.HandlerFunc, body interface{}, hospitalID uint) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	c.Set("hospitalID", hospitalID)
	c.Set("db", func(tableName string) *gorm.DB {
		if tableName == "" {
			return Models.DB.Where("hospital_id = ?", hospitalID)
		}
		return Models.DB.Where(fmt.Sprintf("%s.hospital_id = ?", tableName), hospitalID)
	})

	handler(c)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}
