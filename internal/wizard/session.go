// Package wizard implements the step-gated booking wizard.
//
// A Session owns one BookingState, both estimator groups, one availability
// fetcher and one address autocomplete. All mutations are serialized by the
// session mutex; the mutex is never held while calling a collaborator.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/availability"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/estimator"
	"github.com/m04kA/SMC-CleaningBooking/internal/pricing"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
)

// Session одна сессия мастера бронирования
type Session struct {
	id   string
	deps Dependencies
	cfg  Config

	fetcher *availability.Fetcher
	address *autocomplete.Autocomplete

	mu           sync.Mutex
	state        domain.BookingState
	counters     estimator.Counters
	lastActivity time.Time
	revision     uint64
	closed       bool

	paymentAttempt int
	paymentErr     string
	transactionID  string

	record         *domain.BookingRecord // снимок оплаченного бронирования
	bookingID      int64
	persisting     bool
	persistErr     string
	retryScheduled bool
	emailSent      bool
}

// NewSession создает сессию; profile может быть nil
func NewSession(id string, deps Dependencies, cfg Config, profile *domain.UserProfile) *Session {
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.TimeProvider == nil {
		deps.TimeProvider = &RealTimeProvider{}
	}
	if deps.Clock == nil {
		deps.Clock = autocomplete.RealClock{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Currency == "" {
		cfg.Currency = domain.Currency
	}

	counters := estimator.NewCounters()

	s := &Session{
		id:           id,
		deps:         deps,
		cfg:          cfg,
		fetcher:      availability.NewFetcher(deps.Availability, deps.Observer, deps.Logger, cfg.AvailabilityTimeout),
		address:      autocomplete.New(deps.Geocoder, deps.Clock, deps.Observer, deps.Logger, cfg.Address),
		state:        domain.NewBookingState(profile, counters.Hours(domain.CategoryHome)),
		counters:     counters,
		lastActivity: deps.TimeProvider.Now(),
	}
	s.fetcher.OnChange(s.asyncApplied)
	s.address.OnChange(s.asyncApplied)
	deps.Observer.SessionOpened()

	return s
}

// asyncApplied вызывается после применения фонового ответа (слоты, подсказки адреса)
func (s *Session) asyncApplied() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
}

// ID идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// SelectService выбирает услугу (шаг 1)
// При смене категории активная группа счетчиков сбрасывается к значениям по умолчанию
func (s *Session) SelectService(ctx context.Context, serviceID string) error {
	if err := s.check(domain.StepService); err != nil {
		return err
	}

	service, err := s.deps.Catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			s.deps.Logger.Warn("Wizard[%s]: service id=%s not found", s.id, serviceID)
			return fmt.Errorf("%w: id=%s", ErrServiceNotFound, serviceID)
		}
		s.deps.Logger.Error("Wizard[%s]: failed to load service id=%s: %v", s.id, serviceID, err)
		return fmt.Errorf("%w: failed to load service: %v", ErrInternal, err)
	}
	if service == nil || !service.IsActive {
		return fmt.Errorf("%w: id=%s", ErrServiceNotFound, serviceID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepService); err != nil {
		return err
	}

	prev := s.activeCategoryLocked()
	s.state.Service = service
	if service.Category != prev {
		s.counters.Reset(service.Category)
	}
	s.setHoursLocked(s.counters.Hours(service.Category))

	s.deps.Logger.Info("Wizard[%s]: selected service id=%s, category=%s, hours=%.1f", s.id, service.ID, service.Category, s.state.Hours)
	return nil
}

// IncrementCounter увеличивает счетчик активного оценщика (шаг 2)
func (s *Session) IncrementCounter(field domain.CounterField) error {
	return s.mutateCounter(field, func(c *estimator.Counters) error {
		return c.Increment(field)
	})
}

// DecrementCounter уменьшает счетчик; при нуле ничего не делает
func (s *Session) DecrementCounter(field domain.CounterField) error {
	return s.mutateCounter(field, func(c *estimator.Counters) error {
		err := c.Decrement(field)
		if errors.Is(err, estimator.ErrDecrementDisabled) {
			return nil
		}
		return err
	})
}

// SetCounter устанавливает значение счетчика
func (s *Session) SetCounter(field domain.CounterField, value int) error {
	return s.mutateCounter(field, func(c *estimator.Counters) error {
		return c.Set(field, value)
	})
}

func (s *Session) mutateCounter(field domain.CounterField, mutate func(c *estimator.Counters) error) error {
	category, err := estimator.Category(field)
	if err != nil {
		return newValidationError("field", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepDuration); err != nil {
		return err
	}
	if category != s.activeCategoryLocked() {
		return newValidationError("field", fmt.Sprintf("%s is not used for %s services", field, s.activeCategoryLocked()))
	}

	if err := mutate(&s.counters); err != nil {
		if errors.Is(err, estimator.ErrCounterTooLarge) {
			return newValidationError("value", err.Error())
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// оценщик - первый из двух писателей часов
	s.setHoursLocked(s.counters.Hours(category))
	return nil
}

// SetHours ручная установка часов ползунком (шаг 2); счетчики не меняются
func (s *Session) SetHours(hours float64) error {
	if err := validateHours(hours); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepDuration); err != nil {
		return err
	}

	s.setHoursLocked(hours)
	return nil
}

// SetDate выбирает дату (шаг 3); дата в прошлом запрещена
func (s *Session) SetDate(date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepSchedule); err != nil {
		return err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.cfg.Location)
	now := s.deps.TimeProvider.Now().In(s.cfg.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)
	if day.Before(today) {
		return newValidationError("date", "date must not be in the past")
	}

	if s.state.Date != nil && s.state.Date.Equal(day) {
		// повторный выбор той же даты перезапрашивает слоты после неудачной загрузки
		if snap := s.fetcher.Snapshot(); !snap.Loading && len(snap.Slots) == 0 {
			s.refreshSlotsLocked()
		}
		return nil
	}
	s.state.Date = &day
	s.state.TimeSlot = nil
	s.refreshSlotsLocked()
	return nil
}

// SelectTimeSlot выбирает слот из последнего загруженного списка (шаг 3)
func (s *Session) SelectTimeSlot(start string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepSchedule); err != nil {
		return err
	}
	if s.state.Date == nil {
		return newValidationError("date", "please select a date first")
	}

	slot, ok := s.fetcher.Lookup(s.state.SlotKey(), start)
	if !ok {
		return newValidationError("timeSlot", "time slot is not in the current list")
	}
	if !slot.Available {
		return newValidationError("timeSlot", "time slot is not available")
	}

	s.state.TimeSlot = &slot
	return nil
}

// UpdateClientDetails частично обновляет контактные данные (шаг 4)
func (s *Session) UpdateClientDetails(patch DetailsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepDetails); err != nil {
		return err
	}

	if patch.CountryCode != nil {
		if _, ok := domain.CountryCodes[*patch.CountryCode]; !ok {
			return newValidationError("countryCode", "unsupported country code")
		}
	}
	if patch.Notes != nil && len([]rune(*patch.Notes)) > domain.MaxNotesLength {
		return newValidationError("notes", fmt.Sprintf("must be at most %d characters", domain.MaxNotesLength))
	}
	if patch.Address != nil && len([]rune(*patch.Address)) > domain.MaxAddressLength {
		return newValidationError("address", fmt.Sprintf("must be at most %d characters", domain.MaxAddressLength))
	}

	client := &s.state.Client
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&client.FirstName, patch.FirstName)
	apply(&client.LastName, patch.LastName)
	apply(&client.Email, patch.Email)
	apply(&client.Phone, patch.Phone)
	apply(&client.CountryCode, patch.CountryCode)
	apply(&client.Address, patch.Address)
	if patch.Notes != nil {
		client.Notes = *patch.Notes
	}
	return nil
}

// SetCountryCode выбирает код страны для телефона (шаг 4)
func (s *Session) SetCountryCode(code string) error {
	return s.UpdateClientDetails(DetailsPatch{CountryCode: &code})
}

// TypeAddress ввод в поле адреса (шаг 4); подсказки запрашиваются после паузы
func (s *Session) TypeAddress(text string) error {
	if len([]rune(text)) > domain.MaxAddressLength {
		return newValidationError("address", fmt.Sprintf("must be at most %d characters", domain.MaxAddressLength))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepDetails); err != nil {
		return err
	}

	s.state.Client.Address = text
	s.address.Type(text)
	return nil
}

// SelectAddressSuggestion выбирает подсказку адреса (шаг 4)
func (s *Session) SelectAddressSuggestion(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(domain.StepDetails); err != nil {
		return err
	}

	address, err := s.address.Select(index)
	if err != nil {
		return newValidationError("address", "suggestion not found")
	}
	s.state.Client.Address = address
	return nil
}

// UseCurrentLocation заполняет адрес по текущему местоположению (шаг 4)
// Ошибка отражается в состоянии автодополнения и не блокирует форму
func (s *Session) UseCurrentLocation(ctx context.Context, locator autocomplete.Locator) error {
	if err := s.check(domain.StepDetails); err != nil {
		return err
	}

	address, err := s.address.UseCurrentLocation(ctx, locator)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// шаг мог смениться, пока определялось местоположение
	if err := s.checkLocked(domain.StepDetails); err != nil {
		return err
	}
	s.state.Client.Address = address
	return nil
}

// CanProceed проверяет условие перехода с текущего шага
func (s *Session) CanProceed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.guardLocked(s.state.Step)
}

// Next переход на следующий шаг; шаг оплаты завершается только оплатой
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.aliveLocked(); err != nil {
		return err
	}

	switch s.state.Step {
	case domain.StepSuccess:
		return ErrTerminal
	case domain.StepPayment:
		return ErrPaymentAdvances
	}

	if err := s.guardLocked(s.state.Step); err != nil {
		return err
	}

	s.state.Step++
	s.deps.Logger.Info("Wizard[%s]: moved to step %d (%s)", s.id, s.state.Step, s.state.Step)
	return nil
}

// Back возврат на предыдущий шаг
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.aliveLocked(); err != nil {
		return err
	}

	switch {
	case s.state.Step == domain.StepSuccess:
		return ErrTerminal
	case s.state.Step == domain.StepService:
		return ErrFirstStep
	case s.state.PaymentStatus == domain.PaymentProcessing || s.persisting:
		return ErrPaymentInProgress
	}

	s.state.Step--
	return nil
}

// Invoice счет по текущему состоянию
func (s *Session) Invoice() domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pricing.Compute(s.state.Service, s.state.Hours)
}

// State копия состояния бронирования
func (s *Session) State() domain.BookingState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyStateLocked()
}

// View снимок сессии для отображения
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.copyStateLocked()
	active := s.activeCategoryLocked()

	canDecrement := make(map[domain.CounterField]bool, len(domain.HomeFields)+len(domain.OfficeFields))
	for _, f := range domain.HomeFields {
		canDecrement[f] = s.counters.CanDecrement(f)
	}
	for _, f := range domain.OfficeFields {
		canDecrement[f] = s.counters.CanDecrement(f)
	}

	view := View{
		SessionID: s.id,
		Step:      state.Step,
		Service:   state.Service,
		Hours:     state.Hours,
		Counters: CountersView{
			Active:       active,
			Home:         s.counters.Home,
			Office:       s.counters.Office,
			CanDecrement: canDecrement,
		},
		Date:     state.Date,
		TimeSlot: state.TimeSlot,
		Slots:    s.fetcher.Snapshot(),
		Client:   state.Client,
		Address:  s.address.State(),
		Payment: PaymentView{
			Status:             state.PaymentStatus,
			Error:              s.paymentErr,
			TransactionID:      s.transactionID,
			BookingID:          s.bookingID,
			PersistencePending: s.record != nil && s.bookingID == 0,
			PersistenceError:   s.persistErr,
			RetryScheduled:     s.retryScheduled,
			ConfirmationSent:   s.emailSent,
		},
		Invoice:      pricing.Compute(state.Service, state.Hours).Rounded(),
		LastActivity: s.lastActivity,
		Revision:     s.revision,
	}

	if err := s.guardLocked(state.Step); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			view.GuardErrors = verr.Fields
		}
	} else {
		view.CanProceed = state.Step != domain.StepPayment && state.Step != domain.StepSuccess
	}

	return view
}

// Close освобождает таймер подсказок и запросы в полете
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.fetcher.Close()
	s.address.Close()
	s.deps.Observer.SessionClosed()
}

// expired true, если сессия простаивала дольше ttl
// Оплаченная, но не сохраненная сессия без запланированного повтора не истекает
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record != nil && s.bookingID == 0 && !s.retryScheduled {
		return false
	}
	return now.Sub(s.lastActivity) > ttl
}

// guardLocked условие перехода с шага step
func (s *Session) guardLocked(step domain.Step) error {
	switch step {
	case domain.StepService:
		if s.state.Service == nil {
			return newValidationError("service", "please select a service")
		}
	case domain.StepDuration:
		if s.state.Service == nil {
			return newValidationError("service", "please select a service")
		}
		if !s.state.Service.HoursInRange(s.state.Hours) {
			if s.state.Service.IsOffice() {
				return newValidationError("hours", fmt.Sprintf("office cleaning requires at least %.0f hours", domain.MinOfficeHours))
			}
			return newValidationError("hours", fmt.Sprintf("home cleaning must be between %.0f and %.0f hours", domain.MinHomeHours, domain.MaxHomeHours))
		}
	case domain.StepSchedule:
		if s.state.Date == nil {
			return newValidationError("date", "please select a date")
		}
		if s.state.TimeSlot == nil {
			return newValidationError("timeSlot", "please select a time slot")
		}
		if !s.fetcher.Contains(s.state.SlotKey(), s.state.TimeSlot.Start.String()) {
			return newValidationError("timeSlot", "the selected time slot is no longer available")
		}
	case domain.StepDetails:
		return validateClientDetails(s.state.Client)
	case domain.StepPayment:
		if s.state.PaymentStatus != domain.PaymentPaid {
			return newValidationError("payment", "the deposit has not been paid")
		}
	case domain.StepSuccess:
		return ErrTerminal
	}
	return nil
}

// check проверка шага без удержания блокировки дольше проверки
func (s *Session) check(step domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkLocked(step)
}

// checkLocked операция шага step разрешена, только пока бронирование не оплачено
func (s *Session) checkLocked(step domain.Step) error {
	if err := s.aliveLocked(); err != nil {
		return err
	}
	switch {
	case s.state.Step == domain.StepSuccess:
		return ErrTerminal
	case s.state.PaymentStatus == domain.PaymentProcessing:
		return ErrPaymentInProgress
	case s.state.PaymentStatus == domain.PaymentPaid:
		return ErrAlreadyPaid
	case s.state.Step != step:
		return fmt.Errorf("%w: current step is %s, operation belongs to %s", ErrWrongStep, s.state.Step, step)
	}
	return nil
}

func (s *Session) aliveLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.lastActivity = s.deps.TimeProvider.Now()
	return nil
}

// activeCategoryLocked категория активной группы счетчиков (home, пока услуга не выбрана)
func (s *Session) activeCategoryLocked() domain.ServiceCategory {
	if s.state.Service.IsOffice() {
		return domain.CategoryOffice
	}
	return domain.CategoryHome
}

// setHoursLocked пишет часы; при изменении сбрасывает слот и перезапрашивает список
func (s *Session) setHoursLocked(hours float64) {
	if s.state.Hours == hours {
		return
	}
	s.state.Hours = hours
	s.state.TimeSlot = nil
	s.refreshSlotsLocked()
}

func (s *Session) refreshSlotsLocked() {
	if s.state.Date == nil || s.state.Hours <= 0 {
		s.fetcher.Clear()
		return
	}
	s.fetcher.Refresh(*s.state.Date, s.state.Hours)
}

func (s *Session) copyStateLocked() domain.BookingState {
	state := s.state
	if s.state.Service != nil {
		service := *s.state.Service
		state.Service = &service
	}
	if s.state.Date != nil {
		date := *s.state.Date
		state.Date = &date
	}
	if s.state.TimeSlot != nil {
		slot := *s.state.TimeSlot
		state.TimeSlot = &slot
	}
	return state
}
