package jwttoken

import (
	"mintpass/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *middleware.WalletClaims {
	return &middleware.WalletClaims{
		Wallet: claims.Wallet(),
	}
}

// JWTServiceAdapter bridges JWTService to the middleware's validator interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.WalletClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
