package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/markboard-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and overwrites sessions", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		// Given: a stored session
		session := entity.NewSession("session123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: the board is marked and the session stored again
		require.NoError(t, session.MarkCell(0))
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// Then: the stored board carries the mark
		retrievedSession, err := sessionRepo.GetByID(ctx, "session123")
		require.NoError(t, err)
		assert.Equal(t, entity.MarkX, retrievedSession.Board[0])
	})
}

func TestMemorySessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns a stored session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		// Given: a stored session
		session := entity.NewSession("session123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with the existing ID
		retrievedSession, err := sessionRepo.GetByID(ctx, "session123")

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		assert.Equal(t, session.ID, retrievedSession.ID)
		assert.Equal(t, session.Board, retrievedSession.Board)
	})

	t.Run("Returns ErrSessionNotFound for an unknown ID", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		// When: GetByID is called with a non-existent ID
		retrievedSession, err := sessionRepo.GetByID(ctx, "ghost")

		// Then: an ErrSessionNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrSessionNotFound, err)
		assert.Nil(t, retrievedSession)
	})

	t.Run("Hands out copies, not aliases of the stored session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		// Given: a stored session
		session := entity.NewSession("session123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: a caller marks the board on a retrieved copy without storing it
		retrievedSession, err := sessionRepo.GetByID(ctx, "session123")
		require.NoError(t, err)
		require.NoError(t, retrievedSession.MarkCell(4))

		// Then: the stored session still has an empty board
		storedSession, err := sessionRepo.GetByID(ctx, "session123")
		require.NoError(t, err)
		assert.Equal(t, entity.NewBoard(), storedSession.Board)
	})
}

func TestMemorySessionRepository_DeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes a stored session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		// Given: a stored session
		session := entity.NewSession("session123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: DeleteByID is called with the existing ID
		err := sessionRepo.DeleteByID(ctx, "session123")

		// Then: no error should be returned and the session is gone
		require.NoError(t, err)

		_, err = sessionRepo.GetByID(ctx, "session123")
		require.Error(t, err)
		assert.Equal(t, ErrSessionNotFound, err)
	})

	t.Run("Returns ErrSessionNotFound for an unknown ID", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository()

		// When: DeleteByID is called with a non-existent ID
		err := sessionRepo.DeleteByID(ctx, "ghost")

		// Then: an ErrSessionNotFound error should be returned
		require.Error(t, err)
		require.Equal(t, ErrSessionNotFound, err)
	})
}
