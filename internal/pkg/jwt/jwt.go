package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const downloadTokenType = "download"

var ErrInvalidDownloadToken = errors.New("invalid download token")

// DownloadClaims identifies one stored export file.
type DownloadClaims struct {
	Path     string
	FileName string
	Expires  time.Time
}

type Service interface {
	GenerateDownloadToken(path, fileName string) (token string, expiresAt time.Time, err error)
	ValidateDownloadToken(tokenString string) (DownloadClaims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	linkTTL   time.Duration
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, linkTTL time.Duration) Service {
	return &JWTService{
		linkTTL:   linkTTL,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateDownloadToken signs a short-lived link to a stored export
func (j *JWTService) GenerateDownloadToken(path, fileName string) (token string, expiresAt time.Time, err error) {
	expiresAt = time.Now().Add(j.linkTTL)

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"path":      path,
		"file_name": fileName,
		"type":      downloadTokenType,
		"exp":       expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateDownloadToken verifies the signature and expiry of a download token
func (j *JWTService) ValidateDownloadToken(tokenString string) (DownloadClaims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return DownloadClaims{}, errors.Join(ErrInvalidDownloadToken, err)
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != downloadTokenType {
		return DownloadClaims{}, ErrInvalidDownloadToken
	}

	pathVal, ok := token.Get("path")
	if !ok {
		return DownloadClaims{}, ErrInvalidDownloadToken
	}
	path, ok := pathVal.(string)
	if !ok || path == "" {
		return DownloadClaims{}, ErrInvalidDownloadToken
	}

	fileName := path
	if nameVal, ok := token.Get("file_name"); ok {
		if name, ok := nameVal.(string); ok && name != "" {
			fileName = name
		}
	}

	return DownloadClaims{
		Path:     path,
		FileName: fileName,
		Expires:  token.Expiration(),
	}, nil
}
