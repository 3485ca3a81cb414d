package service_test

import (
	"testing"
	"time"

	"quickeats-order-service/internal/model"
	"quickeats-order-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_ValidateToken(t *testing.T) {
	auth := service.NewAuthService("s3cret")
	actor := model.Actor{ID: "u-1", Role: model.RoleDelivery}

	good, err := auth.IssueToken(actor, time.Hour)
	require.NoError(t, err)

	expired, err := auth.IssueToken(actor, -time.Minute)
	require.NoError(t, err)

	foreign, err := service.NewAuthService("other").IssueToken(actor, time.Hour)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u-1", "role": "chef"}).
		SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).
		SignedString([]byte("s3cret"))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u-1", "role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: good},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: foreign, wantErr: true},
		{name: "unknown role", token: badRole, wantErr: true},
		{name: "missing id", token: noID, wantErr: true},
		{name: "alg none", token: none, wantErr: true},
		{name: "garbage", token: "a.b.c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ValidateToken(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, service.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, actor, got)
		})
	}
}
