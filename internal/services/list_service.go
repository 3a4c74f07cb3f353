package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/storage"
)

type listServiceImpl struct {
	logger zerolog.Logger
	lists  storage.ListRepository
}

func NewListService(
	logger zerolog.Logger,
	lists storage.ListRepository,
) ListService {
	return &listServiceImpl{
		logger: logger,
		lists:  lists,
	}
}

func (s *listServiceImpl) GetLists(ctx context.Context, userID string) ([]*models.List, error) {
	lists, err := s.lists.FindLists(ctx, storage.ListFilter{UserID: userID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select lists")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(lists)).
		Msg("selected lists")
	return lists, nil
}

func (s *listServiceImpl) GetList(ctx context.Context, params ListParams) (*models.List, error) {
	lists, err := s.lists.FindLists(ctx, storage.ListFilter{
		ID:     params.ID,
		UserID: params.UserID,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", params.ID).
			Msg("failed to select list")
		return nil, err
	}
	if len(lists) == 0 {
		s.logger.Warn().
			Str("list_id", params.ID).
			Str("user_id", params.UserID).
			Msg("list not found")
		return nil, ErrListNotFound
	}
	return lists[0], nil
}

func (s *listServiceImpl) CreateList(ctx context.Context, params CreateListParams) (*models.List, error) {
	now := time.Now()
	list := &models.List{
		UserID:    params.UserID,
		Title:     params.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	listUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate list uuid")
		return nil, err
	}
	list.ID = listUUID.String()

	err = s.lists.InsertList(ctx, list)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert list")
		return nil, translateStoreError(err, ErrListNotFound)
	}

	s.logger.Info().
		Str("list_id", list.ID).
		Msg("created list")
	return list, nil
}

func (s *listServiceImpl) UpdateList(ctx context.Context, params UpdateListParams) (*models.List, error) {
	list, err := s.lists.UpdateList(ctx, storage.ListFilter{
		ID:     params.ID,
		UserID: params.UserID,
	}, params.Patch)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", params.ID).
			Msg("failed to update list")
		return nil, translateStoreError(err, ErrListNotFound)
	}

	s.logger.Info().
		Str("list_id", list.ID).
		Msg("updated list")
	return list, nil
}

func (s *listServiceImpl) DeleteList(ctx context.Context, params ListParams) (*models.List, error) {
	list, err := s.lists.DeleteList(ctx, storage.ListFilter{
		ID:     params.ID,
		UserID: params.UserID,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", params.ID).
			Msg("failed to delete list")
		return nil, translateStoreError(err, ErrListNotFound)
	}

	s.logger.Info().
		Str("list_id", list.ID).
		Msg("deleted list")
	return list, nil
}
