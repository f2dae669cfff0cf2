package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/catalog/models"
)

// Service сервис каталога услуг
// Источник истины - таблица service_types; услуги из конфигурации используются,
// если БД недоступна или таблица еще не заполнена
type Service struct {
	repo     CatalogRepository
	fallback map[string]*domain.ServiceType
	order    []string
	logger   Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo CatalogRepository, fallback []*domain.ServiceType, logger Logger) *Service {
	s := &Service{
		repo:     repo,
		fallback: make(map[string]*domain.ServiceType, len(fallback)),
		order:    make([]string, 0, len(fallback)),
		logger:   logger,
	}

	for _, service := range fallback {
		if service == nil {
			continue
		}
		if _, exists := s.fallback[service.ID]; !exists {
			s.order = append(s.order, service.ID)
		}
		s.fallback[service.ID] = service
	}

	return s
}

// GetService получает активную услугу по ID
func (s *Service) GetService(ctx context.Context, id string) (*domain.ServiceType, error) {
	if s.repo != nil {
		service, err := s.repo.GetByID(ctx, id)
		switch {
		case err == nil:
			if !service.IsActive {
				s.logger.Warn("GetService: service id=%s is disabled", id)
				return nil, ErrServiceNotFound
			}
			return service, nil
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			// Ищем в каталоге из конфигурации
		default:
			s.logger.Error("GetService: repository error for service id=%s, using configured catalog: %v", id, err)
		}
	}

	service, ok := s.fallback[id]
	if !ok || !service.IsActive {
		s.logger.Warn("GetService: service id=%s not found", id)
		return nil, ErrServiceNotFound
	}

	copied := *service
	return &copied, nil
}

// List возвращает активные услуги каталога
func (s *Service) List(ctx context.Context) (*models.ServiceListResponse, error) {
	if s.repo != nil {
		services, err := s.repo.List(ctx, true)
		if err == nil && len(services) > 0 {
			return models.FromDomainServiceList(services), nil
		}
		if err != nil {
			s.logger.Error("List: repository error, using configured catalog: %v", err)
		}
	}

	services := make([]*domain.ServiceType, 0, len(s.order))
	for _, id := range s.order {
		if service := s.fallback[id]; service.IsActive {
			services = append(services, service)
		}
	}

	return models.FromDomainServiceList(services), nil
}

// Sync записывает каталог из конфигурации в БД
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("%w: Sync - repository is not configured", ErrInternal)
	}

	for i, id := range s.order {
		service := s.fallback[id]
		if err := validateService(service); err != nil {
			s.logger.Warn("Sync: skipping service id=%s: %v", id, err)
			return i, err
		}
		if err := s.repo.Upsert(ctx, service, i); err != nil {
			s.logger.Error("Sync: failed to upsert service id=%s: %v", id, err)
			return i, fmt.Errorf("%w: Sync - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Sync: synchronized %d services", len(s.order))
	return len(s.order), nil
}

// validateService проверяет описание услуги перед записью
func validateService(service *domain.ServiceType) error {
	if service.ID == "" || service.Title == "" {
		return fmt.Errorf("%w: id and title are required", ErrInvalidService)
	}
	if !service.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidService, service.Category)
	}
	if !service.HourlyRate.IsPositive() {
		return fmt.Errorf("%w: hourly rate must be positive", ErrInvalidService)
	}
	return nil
}
