package tag

import (
	"context"
	"errors"
	"strings"

	"Recipe-Book/domain"
	"Recipe-Book/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagService interface {
		GetTags(ctx context.Context, userID string) ([]domain.TagResponse, error)
		CreateTag(ctx context.Context, req domain.TagRequest, userID string) (domain.TagResponse, error)
		RenameTag(ctx context.Context, id string, req domain.TagRequest, userID string) (domain.TagResponse, error)
		DeleteTag(ctx context.Context, id string, userID string) error
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{
		tagRepository: tagRepository,
	}
}

func (s *tagService) GetTags(ctx context.Context, userID string) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTagsWithCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		res = append(res, domain.TagResponse{
			ID:          tag.ID.String(),
			Name:        tag.Name,
			RecipeCount: tag.RecipeCount,
		})
	}
	return res, nil
}

func (s *tagService) CreateTag(ctx context.Context, req domain.TagRequest, userID string) (domain.TagResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.TagResponse{}, domain.ErrParseUUID
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, userID, name, ""); err != nil {
		return domain.TagResponse{}, err
	}

	tag := &entities.Tag{
		ID:     uuid.New(),
		UserID: userUUID,
		Name:   name,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return domain.TagResponse{}, err
	}
	return domain.TagResponse{ID: tag.ID.String(), Name: tag.Name}, nil
}

func (s *tagService) RenameTag(ctx context.Context, id string, req domain.TagRequest, userID string) (domain.TagResponse, error) {
	tag, err := s.getOwnedTag(ctx, id, userID)
	if err != nil {
		return domain.TagResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, userID, name, id); err != nil {
		return domain.TagResponse{}, err
	}
	if err := s.tagRepository.RenameTag(ctx, id, name); err != nil {
		return domain.TagResponse{}, err
	}

	count, err := s.tagRepository.CountRecipes(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return domain.TagResponse{ID: tag.ID.String(), Name: name, RecipeCount: count}, nil
}

// DeleteTag removes the tag and unlinks it from every recipe. The recipes stay.
func (s *tagService) DeleteTag(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedTag(ctx, id, userID); err != nil {
		return err
	}
	return s.tagRepository.DeleteTag(ctx, id)
}

func (s *tagService) getOwnedTag(ctx context.Context, id string, userID string) (*entities.Tag, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTagNotFound
	}

	tag, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	if tag.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedTagAccess
	}
	return tag, nil
}

func (s *tagService) ensureNameFree(ctx context.Context, userID, name, exceptID string) error {
	existing, err := s.tagRepository.GetTagByName(ctx, userID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID.String() == exceptID {
		return nil
	}
	return domain.ErrTagExists
}
