package Token

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, token string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	if token != "" {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	}
	return c
}

func TestGenerateAndExtract(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")
	t.Setenv("TOKEN_HOUR_LIFESPAN", "1")

	token, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	c := testContext(t, token)
	require.NoError(t, TokenValid(c))

	uid, err := ExtractTokenID(c)
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
}

func TestExtractFromQuery(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	token, err := GenerateToken(7)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?token="+token, nil)

	uid, err := ExtractTokenID(c)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
}

func TestInvalidToken(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	c := testContext(t, "not-a-token")
	assert.Error(t, TokenValid(c))

	_, err := ExtractTokenID(c)
	assert.Error(t, err)
}

func TestWrongSecret(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")
	token, err := GenerateToken(1)
	require.NoError(t, err)

	t.Setenv("API_SECRET", "other-secret")
	c := testContext(t, token)
	assert.Error(t, TokenValid(c))
}
