package user

import (
	"context"
	"errors"
	"strings"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserRegisterResponse, error)
		Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserProfileResponse, error)
		GetUserByID(ctx context.Context, userID string) (*entities.User, error)
		GetExtras(ctx context.Context, userID string) (domain.UserExtrasResponse, error)
		UpdateExtras(ctx context.Context, userID string, req domain.UpdateUserExtrasRequest) (domain.UserExtrasResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserRegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.UserRegisterResponse{}, err
	}
	if exists {
		return domain.UserRegisterResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserRegisterResponse{}, domain.ErrHashPassword
	}

	user := &entities.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     domain.RoleUser,
	}

	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.UserRegisterResponse{}, err
	}

	return domain.UserRegisterResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserLoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.UserLoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.UserLoginResponse{}, domain.ErrInvalidCredentials
	}

	return domain.UserLoginResponse{
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
		Role:  user.Role,
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfileResponse, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserProfileResponse{}, err
	}

	return domain.UserProfileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) GetExtras(ctx context.Context, userID string) (domain.UserExtrasResponse, error) {
	extras, err := s.userRepository.GetExtras(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserExtrasResponse{}, nil
		}
		return domain.UserExtrasResponse{}, err
	}
	return toExtrasResponse(extras), nil
}

func (s *userService) UpdateExtras(ctx context.Context, userID string, req domain.UpdateUserExtrasRequest) (domain.UserExtrasResponse, error) {
	extras, err := LoadOrInitExtras(ctx, s.userRepository, userID)
	if err != nil {
		return domain.UserExtrasResponse{}, err
	}

	if req.KrogerLocationID != nil {
		extras.KrogerLocationID = strings.TrimSpace(*req.KrogerLocationID)
	}
	if req.KrogerZipCode != nil {
		extras.KrogerZipCode = strings.TrimSpace(*req.KrogerZipCode)
	}

	if err := s.userRepository.SaveExtras(ctx, extras); err != nil {
		return domain.UserExtrasResponse{}, err
	}
	return toExtrasResponse(extras), nil
}

// LoadOrInitExtras returns the stored settings row or a fresh unsaved one.
func LoadOrInitExtras(ctx context.Context, repo UserRepository, userID string) (*entities.UserExtras, error) {
	extras, err := repo.GetExtras(ctx, userID)
	if err == nil {
		return extras, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return &entities.UserExtras{ID: uuid.New(), UserID: userUUID}, nil
}

func toExtrasResponse(extras *entities.UserExtras) domain.UserExtrasResponse {
	return domain.UserExtrasResponse{
		KrogerLocationID: extras.KrogerLocationID,
		KrogerZipCode:    extras.KrogerZipCode,
		KrogerConnected:  extras.KrogerRefreshToken != "",
	}
}
