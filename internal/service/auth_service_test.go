package service

import (
	"context"
	"testing"
	"time"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"
	"github.com/FedyaB/restapi-server-spbstu/internal/config"
	"github.com/FedyaB/restapi-server-spbstu/internal/dto"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpirationSeconds: 300}
}

func newAuth(repo *stubEmployeeRepo) *authService {
	return NewAuthService(repo, newTestCfg()).(*authService)
}

func seedEmployee(t *testing.T, repo *stubEmployeeRepo, auth AuthService, id int64, password string) model.Employee {
	t.Helper()
	e := model.Employee{
		ID: id, Name: "Ted", Surname: "Smith", Position: model.PositionMiddle,
		Birthday: "01/01/1990", Salary: 1000,
	}
	require.NoError(t, auth.SetPassword(&e.Credentials, password))
	repo.rows[id] = e
	if id > repo.nextID {
		repo.nextID = id
	}
	return e
}

func int64p(v int64) *int64 { return &v }

func TestSetPassword_SaltAndHashShape(t *testing.T) {
	auth := newAuth(newStubRepo())
	var a, b model.Credentials
	require.NoError(t, auth.SetPassword(&a, "secret"))
	require.NoError(t, auth.SetPassword(&b, "secret"))

	assert.Len(t, a.Salt, saltBytes*2)
	assert.Len(t, a.Hash, hashKeyBytes*2)
	assert.NotEqual(t, a.Salt, b.Salt, "every call draws a fresh salt")
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestValidatePassword(t *testing.T) {
	auth := newAuth(newStubRepo())
	var c model.Credentials
	require.NoError(t, auth.SetPassword(&c, "secret"))

	assert.True(t, auth.ValidatePassword(c, "secret"))
	assert.False(t, auth.ValidatePassword(c, "Secret"))
	assert.False(t, auth.ValidatePassword(model.Credentials{}, "secret"))
}

func TestGenerateAndParseJWT(t *testing.T) {
	auth := newAuth(newStubRepo())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return now }

	token, err := auth.GenerateJWT(model.Key{ID: 5})
	require.NoError(t, err)

	claims, err := auth.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, model.Key{ID: 5}, claims.Key)
	assert.Equal(t, now.Add(300*time.Second).Unix(), claims.ExpiresAt.Unix())

	// expired after 300 seconds
	auth.now = func() time.Time { return now.Add(301 * time.Second) }
	_, err = auth.ParseJWT(token)
	assert.ErrorIs(t, err, apierror.ErrAccessDenied)
}

func TestParseJWT_RejectsForeignTokens(t *testing.T) {
	auth := newAuth(newStubRepo())

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
		Key:              model.Key{ID: 1},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = auth.ParseJWT(signed)
	assert.ErrorIs(t, err, apierror.ErrAccessDenied)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{Key: model.Key{ID: 1}})
	signed, err = noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.ParseJWT(signed)
	assert.ErrorIs(t, err, apierror.ErrAccessDenied)

	_, err = auth.ParseJWT("not-a-token")
	assert.ErrorIs(t, err, apierror.ErrAccessDenied)
}

func TestLogin(t *testing.T) {
	repo := newStubRepo()
	auth := newAuth(repo)
	seedEmployee(t, repo, auth, 3, "secret")

	resp, err := auth.Login(context.Background(), dto.LoginRequest{ID: int64p(3), Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	claims, err := auth.ParseJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.Key{ID: 3}, claims.Key)

	_, err = auth.Login(context.Background(), dto.LoginRequest{ID: int64p(3), Password: "wrong"})
	assert.ErrorIs(t, err, apierror.ErrAccessDenied)

	_, err = auth.Login(context.Background(), dto.LoginRequest{ID: int64p(99), Password: "secret"})
	assert.ErrorIs(t, err, apierror.ErrAccessDenied)
}

func TestIsSameUser(t *testing.T) {
	assert.True(t, IsSameUser(&model.Key{ID: 1}, model.Key{ID: 1}))
	assert.False(t, IsSameUser(&model.Key{ID: 2}, model.Key{ID: 1}))
	assert.False(t, IsSameUser(nil, model.Key{ID: 1}))
}

func TestNewCredentials_MatchesValidatePassword(t *testing.T) {
	c, err := NewCredentials("hunter2")
	require.NoError(t, err)
	assert.True(t, newAuth(newStubRepo()).ValidatePassword(c, "hunter2"))
}
