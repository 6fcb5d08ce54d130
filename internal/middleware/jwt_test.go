package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

func identityEcho(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString("user_id"),
		"role":    c.GetString("role"),
	})
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthRequired(), identityEcho)
	r.GET("/open", OptionalAuth(), identityEcho)
	r.GET("/admin", AuthRequired(), RequireAdmin, identityEcho)
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := authTestRouter()

	token, err := utils.GenerateJWT(models.User{ID: "u-1", Email: "a@b.fr", Role: "customer"})
	require.NoError(t, err)

	w := doGet(r, "/private", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := authTestRouter()

	w := doGet(r, "/private", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsForgedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "autre_secret")
	token, err := utils.GenerateJWT(models.User{ID: "u-1", Email: "a@b.fr"})
	require.NoError(t, err)

	// le serveur tourne avec un autre secret
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := authTestRouter()

	w := doGet(r, "/private", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := authTestRouter()

	w := doGet(r, "/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := authTestRouter()

	w := doGet(r, "/open", "pas.un.jwt")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestRequireAdminBlocksCustomers(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	r := authTestRouter()

	customer, err := utils.GenerateJWT(models.User{ID: "u-1", Email: "a@b.fr", Role: "customer"})
	require.NoError(t, err)
	admin, err := utils.GenerateJWT(models.User{ID: "u-2", Email: "adm@b.fr", Role: "admin"})
	require.NoError(t, err)

	require.Equal(t, http.StatusForbidden, doGet(r, "/admin", customer).Code)
	require.Equal(t, http.StatusOK, doGet(r, "/admin", admin).Code)
}
