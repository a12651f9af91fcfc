package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockforge/stockforge/internal/models"
)

func TestLoginIssuesUsableToken(t *testing.T) {
	s, mock := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	accountCols := []string{"id", "username", "password_hash", "fname", "lname", "role", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE username = ?")).
		WithArgs("amara").
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(1, "amara", string(hash), "Amara", "Okafor", models.RoleAdmin, sampleTime))

	w := doJSON(s, http.MethodPost, "/api/v1/login", "", map[string]string{"username": "amara", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleAdmin, resp.Role)

	// The issued token opens the authed surface.
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(1, "amara", string(hash), "Amara", "Okafor", models.RoleAdmin, sampleTime))

	w = doJSON(s, http.MethodGet, "/api/v1/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var acc models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acc))
	assert.Equal(t, "amara", acc.Username)
	// Password hashes never leave the server.
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginBadCredentials(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE username = ?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "fname", "lname", "role", "created_at"}))

	w := doJSON(s, http.MethodPost, "/api/v1/login", "", map[string]string{"username": "ghost", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthedRoutesRejectMissingToken(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(s, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthedRoutesRejectForgedToken(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(s, http.MethodGet, "/api/v1/products", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRejectStaff(t *testing.T) {
	s, _ := newTestServer(t)
	token := tokenFor(t, s, 2, models.RoleStaff)

	w := doJSON(s, http.MethodGet, "/api/v1/accounts", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(s, http.MethodGet, "/api/v1/reports/low-stock", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutesAllowAdmin(t *testing.T) {
	s, mock := newTestServer(t)
	token := tokenFor(t, s, 1, models.RoleAdmin)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts ORDER BY username ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "fname", "lname", "role", "created_at"}))

	w := doJSON(s, http.MethodGet, "/api/v1/accounts", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
