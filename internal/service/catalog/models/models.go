package models

import (
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	HourlyRate       string  `json:"hourlyRate"`
	RecommendedHours float64 `json:"recommendedHours"`
	Category         string  `json:"category"`
	MinHours         float64 `json:"minHours"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.ServiceType) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:               s.ID,
		Title:            s.Title,
		Description:      s.Description,
		HourlyRate:       s.HourlyRate.StringFixed(2),
		RecommendedHours: s.RecommendedHours,
		Category:         string(s.Category),
		MinHours:         s.MinHours(),
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.ServiceType) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, service := range services {
		if serviceResp := FromDomainService(service); serviceResp != nil {
			resp.Services = append(resp.Services, *serviceResp)
		}
	}

	return resp
}
