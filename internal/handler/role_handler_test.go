package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"netadmin/internal/database"
	"netadmin/internal/middleware"
	"netadmin/internal/model"
	"netadmin/internal/repository"
	"netadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	roleRepo := repository.NewRoleRepository(db)
	roleService := service.NewRoleService(roleRepo, repository.NewTransactionManager(db))

	router := gin.New()
	api := router.Group("/api")
	NewRoleHandler(roleService).RegisterRoutes(api)
	return router, db
}

func signToken(t *testing.T, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "00000000-0000-0000-0000-000000000001",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRolesRequireAdminToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/roles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/roles", signToken(t, "viewer"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateRoleEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	token := signToken(t, "admin")

	rec := doRequest(router, http.MethodPost, "/api/roles", token, gin.H{
		"name":        "Manager",
		"description": "Regional manager",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Status string               `json:"status"`
		Data   service.RoleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Manager", body.Data.Name)

	var count int64
	db.Model(&model.Role{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateRoleEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signToken(t, "admin")

	rec := doRequest(router, http.MethodPost, "/api/roles", token, gin.H{"name": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Contains(t, body.Errors, "name")
}

func TestDeleteRoleEndpointConflict(t *testing.T) {
	router, db := newTestRouter(t)
	token := signToken(t, "admin")

	role := model.Role{Name: "Manager"}
	require.NoError(t, db.Create(&role).Error)
	user := model.User{Name: "Jane", Email: "jane@x.com", Password: "x", RoleID: &role.ID, Status: model.UserStatusActive}
	require.NoError(t, db.Create(&user).Error)

	rec := doRequest(router, http.MethodDelete, "/api/roles/"+role.ID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cannot delete role with assigned users", body.Error)
}

func TestUpdateRoleEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signToken(t, "admin")

	rec := doRequest(router, http.MethodPut, "/api/roles/4f2e1b1e-0000-0000-0000-000000000000", token, gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRolesEndpointPagination(t *testing.T) {
	router, db := newTestRouter(t)
	token := signToken(t, "admin")

	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&model.Role{Name: fmt.Sprintf("Role %02d", i)}).Error)
	}

	rec := doRequest(router, http.MethodGet, "/api/roles?page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Data        []service.RoleResponse `json:"data"`
			From        int                    `json:"from"`
			To          int                    `json:"to"`
			Total       int64                  `json:"total"`
			CurrentPage int                    `json:"current_page"`
			LastPage    int                    `json:"last_page"`
			Links       []struct {
				URL    *string `json:"url"`
				Label  string  `json:"label"`
				Active bool    `json:"active"`
			} `json:"links"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	page := body.Data
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 11, page.From)
	assert.Equal(t, 12, page.To)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	// previous + 2 page numbers + next
	require.Len(t, page.Links, 4)
	assert.Nil(t, page.Links[3].URL)
}
