package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozaiithejava/portfolio-api/internal/model"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/utils"
)

type fakeAdmins struct {
	admins map[string]model.Admin
	err    error
}

func (f fakeAdmins) GetByUsername(_ context.Context, username string) (model.Admin, error) {
	if f.err != nil {
		return model.Admin{}, f.err
	}
	a, ok := f.admins[username]
	if !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	return a, nil
}

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := utils.HashPassword("admin123", 4)
	require.NoError(t, err)
	return NewAuthService(fakeAdmins{admins: map[string]model.Admin{
		"admin": {ID: 1, Username: "admin", PasswordHash: hash},
	}}, "secret", 24*time.Hour)
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Username)
	assert.Equal(t, uint64(1), res.AdminID)
	assert.Equal(t, fixed.Add(24*time.Hour), res.ExpiresAt)

	claims, err := svc.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, uint64(1), claims.AdminID)

	svc.now = func() time.Time { return fixed.Add(24*time.Hour + time.Second) }
	_, err = svc.Verify(res.Token)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, "nobody", "admin123")
	_, errWrong := svc.Login(ctx, "admin", "wrong")
	_, errEmpty := svc.Login(ctx, "", "")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errEmpty, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginStorageFailure(t *testing.T) {
	boom := &repository.StorageError{Op: "admin.get", Err: errors.New("disk I/O error")}
	svc := NewAuthService(fakeAdmins{err: boom}, "secret", time.Hour)

	_, err := svc.Login(context.Background(), "admin", "admin123")
	var se *repository.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "disk I/O error", err.Error())
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
