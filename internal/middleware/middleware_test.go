package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.ErrInstitutionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"conflict", apperrors.ErrDestinationCodeTaken, http.StatusConflict, dto.ErrorCodeConflict},
		{"validation", fmt.Errorf("%w: rank", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown destination", apperrors.ErrUnknownDestination, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"missing upload", apperrors.ErrMissingUpload, http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"unreadable", apperrors.NewCustomError(apperrors.ErrUnreadableSpreadsheet, "spreadsheet could not be read"), http.StatusUnprocessableEntity, dto.ErrorCodeUnreadableSpreadsheet},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIError_UsesCustomMessageAndDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrUnknownDestination, "destination code does not match any institution").
		WithDetails(map[string]interface{}{"destinationCode": "ZZZZ"}))

	resp := decodeError(t, w)
	assert.Equal(t, "destination code does not match any institution", resp.Error.Message)
	assert.Equal(t, map[string]interface{}{"destinationCode": "ZZZZ"}, resp.Error.Details)
}

func newAuthRouter(jwtService *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.GET("/private", NewAuthMiddleware(jwtService).JWTAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UsernameKey))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "mapa"})
	token, _, err := jwtService.GenerateToken("operador")
	require.NoError(t, err)
	router := newAuthRouter(jwtService)

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"bearer header", "/private", "Bearer " + token, http.StatusOK},
		{"query token", "/private?token=" + token, "", http.StatusOK},
		{"missing", "/private", "", http.StatusUnauthorized},
		{"bare prefix", "/private", "Bearer ", http.StatusUnauthorized},
		{"garbage", "/private", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "operador", w.Body.String())
			}
		})
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(), Metrics())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDKey))
	assert.Equal(t, w.Header().Get(RequestIDKey), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDKey, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDKey))
}
