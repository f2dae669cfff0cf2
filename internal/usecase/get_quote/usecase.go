package get_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/estimator"
	"github.com/m04kA/SMC-CleaningBooking/internal/pricing"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
)

// UseCase расчет стоимости без сессии мастера
type UseCase struct {
	catalog Catalog
	logger  Logger
}

// NewUseCase создает новый use case
func NewUseCase(catalog Catalog, logger Logger) *UseCase {
	return &UseCase{
		catalog: catalog,
		logger:  logger,
	}
}

// Execute считает часы и счет для услуги
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetQuote: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			uc.logger.Warn("GetQuote: service id=%s not found", req.ServiceID)
			return nil, fmt.Errorf("%w: id=%s", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("GetQuote: failed to load service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to load service: %v", ErrInternal, err)
	}

	// 3. Часы: ручное значение или оценка по счетчикам категории
	hours, estimated := estimateHours(service, req)

	// 4. Счет
	invoice := pricing.Compute(service, hours).Rounded()

	uc.logger.Info("GetQuote: service=%s, hours=%.1f, estimated=%t, total=%s",
		service.ID, hours, estimated, invoice.Total.StringFixed(2))

	return &Response{
		Service:   service,
		Hours:     hours,
		Estimated: estimated,
		Invoice:   invoice,
	}, nil
}

func estimateHours(service *domain.ServiceType, req *Request) (float64, bool) {
	if req.Hours != nil {
		return *req.Hours, false
	}

	if service.IsOffice() {
		counts := domain.DefaultOfficeCounts()
		if req.Office != nil {
			counts = *req.Office
		}
		return estimator.OfficeHours(counts), true
	}

	counts := domain.DefaultHomeCounts()
	if req.Home != nil {
		counts = *req.Home
	}
	return estimator.HomeHours(counts), true
}
