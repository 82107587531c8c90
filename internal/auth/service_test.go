package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdeck/directory-api/internal/auth/entity"
)

type fakeUserStore struct {
	users []entity.User
}

func (f *fakeUserStore) Create(_ context.Context, u *entity.User) error {
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, u.Email) {
			return ErrEmailTaken
		}
	}
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, email) {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]entity.User, error) {
	return append([]entity.User(nil), f.users...), nil
}

func (f *fakeUserStore) Update(_ context.Context, u *entity.User) error {
	for i := range f.users {
		if f.users[i].ID == u.ID {
			f.users[i] = *u
			return nil
		}
	}
	return ErrUserNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}

// pinned to the real clock so issued tokens pass exp validation
var authTestTime = time.Now().UTC().Truncate(time.Second)

func newAuthTestService(store *fakeUserStore) *Service {
	svc := NewService(store, zap.NewNop().Sugar(), Config{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		// MinCost keeps the hashing fast in tests
		BcryptRounds: bcrypt.MinCost,
	})
	svc.now = func() time.Time { return authTestTime }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("user-%03d", seq)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	reg, err := svc.Register(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccessToken)
	require.Equal(t, "user-001", reg.User.ID)
	require.Equal(t, "user", reg.User.Role)
	require.True(t, reg.User.IsActive)
	require.NotEqual(t, "s3cret", reg.User.PasswordHash)

	login, err := svc.Login(context.Background(), "ada@company.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthTestService(&fakeUserStore{})

	_, err := svc.Register(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ADA@company.com", "Other", "Person", "s3cret")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginBadCredentials(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	_, err := svc.Register(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@company.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	// unknown email reports the same error as a wrong password
	_, err = svc.Login(context.Background(), "nobody@company.com", "s3cret")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	reg, err := svc.Register(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)

	for i := range store.users {
		if store.users[i].ID == reg.User.ID {
			store.users[i].IsActive = false
		}
	}

	_, err = svc.Login(context.Background(), "ada@company.com", "s3cret")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestParseTokenClaims(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	reg, err := svc.Register(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)

	claims, err := svc.ParseToken(reg.AccessToken)
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, claims["sub"])
	require.Equal(t, "ada@company.com", claims["email"])
	require.Equal(t, "user", claims["role"])
	require.Equal(t, float64(authTestTime.Add(time.Hour).Unix()), claims["exp"])

	user, err := svc.CurrentUser(context.Background(), claims)
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, user.ID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := newAuthTestService(&fakeUserStore{})

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-001",
		"exp": authTestTime.Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.ParseToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateUserRoleDefaults(t *testing.T) {
	svc := newAuthTestService(&fakeUserStore{})

	u, err := svc.CreateUser(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret", "")
	require.NoError(t, err)
	require.Equal(t, "user", u.Role)

	admin, err := svc.CreateUser(context.Background(), "root@company.com", "Grace", "Hopper", "s3cret", "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", admin.Role)
}

func TestUpdateUserMergesFields(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	u, err := svc.CreateUser(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret", "")
	require.NoError(t, err)

	role := "admin"
	inactive := false
	updated, err := svc.UpdateUser(context.Background(), u.ID, UpdateUserInput{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	require.Equal(t, "admin", updated.Role)
	require.False(t, updated.IsActive)
	require.Equal(t, "Ada", updated.FirstName)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	u, err := svc.CreateUser(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret", "")
	require.NoError(t, err)

	newPassword := "n3wpass"
	_, err = svc.UpdateUser(context.Background(), u.ID, UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@company.com", "n3wpass")
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), "ada@company.com", "s3cret")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	_, err := svc.CreateUser(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret", "")
	require.NoError(t, err)
	other, err := svc.CreateUser(context.Background(), "grace@company.com", "Grace", "Hopper", "s3cret", "")
	require.NoError(t, err)

	taken := "ada@company.com"
	_, err = svc.UpdateUser(context.Background(), other.ID, UpdateUserInput{Email: &taken})
	require.ErrorIs(t, err, ErrEmailTaken)

	recased := "Grace@Company.com"
	updated, err := svc.UpdateUser(context.Background(), other.ID, UpdateUserInput{Email: &recased})
	require.NoError(t, err)
	require.Equal(t, recased, updated.Email)
}

func TestDeleteUser(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	u, err := svc.CreateUser(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), u.ID))
	require.ErrorIs(t, svc.DeleteUser(context.Background(), u.ID), ErrUserNotFound)

	_, err = svc.GetUser(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthTestService(store)

	_, err := svc.CreateUser(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret", "")
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), "grace@company.com", "Grace", "Hopper", "s3cret", "admin")
	require.NoError(t, err)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	store := &fakeUserStore{}
	issuer := newAuthTestService(store)
	issuer.now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }

	reg, err := issuer.Register(context.Background(), "ada@company.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)

	verifier := newAuthTestService(store)
	_, err = verifier.ParseToken(reg.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
