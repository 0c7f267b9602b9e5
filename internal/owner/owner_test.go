package owner

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Check(7, 7))
	assert.ErrorIs(t, Check(7, 8), model.ErrForbidden)
}

func TestID(t *testing.T) {
	t.Parallel()

	_, err := ID(context.Background())
	require.ErrorIs(t, err, model.ErrUnauthorized)

	id, err := ID(WithIdentity(context.Background(), Identity{OwnerID: 42}))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	r := NewResolver(secret, 0)

	valid, err := r.Issue(Identity{OwnerID: 5, Role: "admin"}, time.Hour)
	require.NoError(t, err)

	expired, err := r.Issue(Identity{OwnerID: 5}, -time.Hour)
	require.NoError(t, err)

	foreign, err := NewResolver("other-secret", 0).Issue(Identity{OwnerID: 5}, time.Hour)
	require.NoError(t, err)

	subjectOnly, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		resolver *Resolver
		header   string
		want     Identity
		wantErr  error
	}{
		{name: "valid token", resolver: r, header: "Bearer " + valid, want: Identity{OwnerID: 5, Role: "admin"}},
		{name: "subject claim", resolver: r, header: "Bearer " + subjectOnly, want: Identity{OwnerID: 9}},
		{name: "expired token", resolver: r, header: "Bearer " + expired, wantErr: model.ErrUnauthorized},
		{name: "wrong signature", resolver: r, header: "Bearer " + foreign, wantErr: model.ErrUnauthorized},
		{name: "missing header", resolver: r, header: "", wantErr: model.ErrUnauthorized},
		{name: "fallback owner", resolver: NewResolver(secret, 3), header: "", want: Identity{OwnerID: 3}},
		{name: "bad token is not replaced by fallback", resolver: NewResolver(secret, 3), header: "Bearer junk", wantErr: model.ErrUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.resolver.Resolve(context.Background(), tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOwnerOf(t *testing.T) {
	t.Parallel()

	token, err := NewResolver("server-secret", 0).Issue(Identity{OwnerID: 31}, time.Hour)
	require.NoError(t, err)

	id, err := OwnerOf(token)
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)

	bySubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "12"}).
		SignedString([]byte("other"))
	require.NoError(t, err)
	id, err = OwnerOf(bySubject)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = OwnerOf("not-a-token")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}
