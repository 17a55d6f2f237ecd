package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
	"github.com/noah-isme/portfolio-contact-api/internal/repository"
)

// ErrAdminContactNotFound indicates submission missing.
var ErrAdminContactNotFound = errors.New("contact message not found")

// AdminContactService exposes read access to stored contact messages.
type AdminContactService interface {
	List(ctx context.Context, req dto.AdminContactListRequest) (dto.AdminContactListResponse, error)
	Get(ctx context.Context, id uint) (dto.AdminContactResponse, error)
}

type adminContactService struct {
	repo   repository.ContactRepository
	logger zerolog.Logger
}

// NewAdminContactService constructs the admin inbox service.
func NewAdminContactService(repo repository.ContactRepository, logger zerolog.Logger) AdminContactService {
	return &adminContactService{
		repo:   repo,
		logger: logger.With().Str("component", "admin_contact_service").Logger(),
	}
}

func (s *adminContactService) List(ctx context.Context, req dto.AdminContactListRequest) (dto.AdminContactListResponse, error) {
	filter := repository.ContactFilter{
		Search:   req.Search,
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize),
	}

	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Int("page", filter.Page).Str("search", filter.Search).Msg("failed to list contact messages")
		return dto.AdminContactListResponse{}, err
	}

	items := make([]dto.AdminContactResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, dto.NewAdminContactResponse(message))
	}

	return dto.AdminContactListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, filter.PageSize),
		},
	}, nil
}

func (s *adminContactService) Get(ctx context.Context, id uint) (dto.AdminContactResponse, error) {
	message, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminContactResponse{}, ErrAdminContactNotFound
		}
		s.logger.Error().Err(err).Uint("contact_id", id).Msg("failed to load contact message")
		return dto.AdminContactResponse{}, err
	}
	return dto.NewAdminContactResponse(message), nil
}
