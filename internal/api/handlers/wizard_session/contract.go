package wizard_session

import (
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/iplocation"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

// SessionRegistry реестр живых сессий мастера
type SessionRegistry interface {
	Create(profile *domain.UserProfile) *wizard.Session
	Get(id string) (*wizard.Session, error)
	Close(id string) error
}

// IPLocator определение местоположения по IP клиента (может быть nil)
type IPLocator interface {
	ForIP(ip string) *iplocation.IPLocator
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
