package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	defer pg.Terminate()

	withRepo := func(t *testing.T, testFunc func(r *UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			testFunc(&UserRepo{db: tx})
		})
	}

	t.Run("create user ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			user, err := r.CreateUser(t.Context(), "testuser", "hashedpassword123")

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID, "ID should be generated")
			assert.Equal(t, "testuser", user.Username)
			assert.Equal(t, "hashedpassword123", user.PasswordHash)
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user duplicate username fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.CreateUser(t.Context(), "duplicateuser", "hashedpassword123")
			require.NoError(t, err)

			_, err = r.CreateUser(t.Context(), "duplicateuser", "otherhash")
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), "findbyid", "hashedpassword123")
			require.NoError(t, err)

			got, err := r.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created, got)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.GetUserByID(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get user by username ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), "findbyusername", "hashedpassword123")
			require.NoError(t, err)

			got, err := r.GetUserByUsername(t.Context(), created.Username)

			require.NoError(t, err)
			assert.Equal(t, created, got)
		})
	})

	t.Run("get user by username not found", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.GetUserByUsername(t.Context(), "nonexistentuser")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
