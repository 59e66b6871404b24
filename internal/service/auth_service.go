package service

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"
	"github.com/FedyaB/restapi-server-spbstu/internal/config"
	"github.com/FedyaB/restapi-server-spbstu/internal/dto"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"
	"github.com/FedyaB/restapi-server-spbstu/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters.
const (
	saltBytes      = 16
	hashIterations = 10000
	hashKeyBytes   = 512
)

// IdentityClaims are the claims embedded in every access token: the key of
// the authenticated employee plus the expiration time.
type IdentityClaims struct {
	Key model.Key `json:"key"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	SetPassword(c *model.Credentials, password string) error
	ValidatePassword(c model.Credentials, password string) bool
	GenerateJWT(key model.Key) (string, error)
	ParseJWT(token string) (*IdentityClaims, error)
}

type authService struct {
	repo   repository.EmployeeRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{
		repo:   repo,
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.JWTExpirationSeconds) * time.Second,
		now:    time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.ID == nil {
		return nil, fmt.Errorf("%w: id is required", apierror.ErrBadRequest)
	}
	key := model.Key{ID: *req.ID}

	e, err := s.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", apierror.ErrAccessDenied)
	}
	if err != nil {
		return nil, err
	}
	if !s.ValidatePassword(e.Credentials, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", apierror.ErrAccessDenied)
	}

	token, err := s.GenerateJWT(key)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{ID: key.ID, Token: token}, nil
}

// SetPassword stores a fresh random salt and the PBKDF2 hash of password.
func (s *authService) SetPassword(c *model.Credentials, password string) error {
	creds, err := NewCredentials(password)
	if err != nil {
		return err
	}
	*c = creds
	return nil
}

// NewCredentials draws a random salt and hashes password with it.
func NewCredentials(password string) (model.Credentials, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return model.Credentials{}, fmt.Errorf("generate salt: %w", err)
	}
	c := model.Credentials{Salt: hex.EncodeToString(salt)}
	c.Hash = derive(password, c.Salt)
	return c, nil
}

// ValidatePassword re-derives the hash with the stored salt.
func (s *authService) ValidatePassword(c model.Credentials, password string) bool {
	if c.Salt == "" || c.Hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(derive(password, c.Salt)), []byte(c.Hash)) == 1
}

// derive uses the hex salt string itself as PBKDF2 salt, so stored records
// stay verifiable by any implementation that hashes the same way.
func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, hashKeyBytes, sha512.New)
	return hex.EncodeToString(key)
}

func (s *authService) GenerateJWT(key model.Key) (string, error) {
	claims := IdentityClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authService) ParseJWT(tokenStr string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", apierror.ErrAccessDenied)
	}
	if claims.Key.ID < 1 {
		return nil, fmt.Errorf("%w: malformed token", apierror.ErrAccessDenied)
	}
	return claims, nil
}

// IsSameUser reports whether the authenticated identity owns target.
func IsSameUser(identity *model.Key, target model.Key) bool {
	return identity != nil && *identity == target
}
