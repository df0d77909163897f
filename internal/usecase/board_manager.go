package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/markboard-backend/internal/entity"
	"github.com/rocketscienceinc/markboard-backend/internal/pkg"
	"github.com/rocketscienceinc/markboard-backend/internal/repository"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type BoardManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
}

func NewBoardManager(logger *slog.Logger, sessionRepo sessionRepo) *BoardManager {
	return &BoardManager{
		logger: logger,

		sessionRepo: sessionRepo,
	}
}

// GetOrCreateSession - returns the stored session for the given ID, or creates a
// fresh one with an empty board. An empty or unknown ID counts as first contact,
// session IDs are always minted server side.
func (that *BoardManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return that.createSession(ctx)
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return that.createSession(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// GetSession - returns the stored session for the given ID.
func (that *BoardManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// MarkCell - applies one cell mark to the session board and stores the updated
// session. A failed mark leaves the stored board unchanged.
func (that *BoardManager) MarkCell(ctx context.Context, id string, cell int) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if err = session.MarkCell(cell); err != nil {
		return nil, fmt.Errorf("failed to mark cell: %w", err)
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

// EndSession - deletes the session once its view is gone; the board goes with it.
func (that *BoardManager) EndSession(ctx context.Context, id string) error {
	log := that.logger.With("method", "EndSession")

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	log.Info("session ended", "session", id)

	return nil
}

func (that *BoardManager) createSession(ctx context.Context) (*entity.Session, error) {
	sessionID := pkg.GenerateNewSessionID()

	session := entity.NewSession(sessionID)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}
