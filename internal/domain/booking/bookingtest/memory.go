// Package bookingtest oferece um repositório em memória para testes.
package bookingtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Store implementa domain.Repository e os repositórios de pagamento e review.
type Store struct {
	mu sync.Mutex

	Users     map[string]*models.User
	Services  map[string]*models.Service
	Schedules map[string]map[time.Weekday]*models.WeeklySchedule
	Leaves    []models.LeavePeriod
	Bookings  map[string]*models.Booking
	History   []models.BookingHistory
	Payments  []models.Payment
	Reviews   []models.Review
	AuditLogs []models.AuditLog

	// Falhas injetáveis.
	FailHistory  error
	FailBookings error

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	seq int
}

func New() *Store {
	return &Store{
		Users:     map[string]*models.User{},
		Services:  map[string]*models.Service{},
		Schedules: map[string]map[time.Weekday]*models.WeeklySchedule{},
		Bookings:  map[string]*models.Booking{},
		locks:     map[string]*sync.Mutex{},
	}
}

var _ domain.Repository = (*Store)(nil)

// --------------------------------------------------
// Seed helpers
// --------------------------------------------------

// Day converte "YYYY-MM-DD" e entra em pânico se a data for inválida.
func Day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *Store) AddUser(role, name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:   role,
		Active: true,
	}
	s.Users[u.ID] = u
	return u
}

func (s *Store) AddService(name string, durationMin int, price string) *models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc := &models.Service{
		ID:          uuid.NewString(),
		Name:        name,
		DurationMin: durationMin,
		Price:       decimal.RequireFromString(price),
		Active:      true,
	}
	s.Services[svc.ID] = svc
	return svc
}

func (s *Store) SetSchedule(stylistID string, day time.Weekday, start, end string, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Schedules[stylistID] == nil {
		s.Schedules[stylistID] = map[time.Weekday]*models.WeeklySchedule{}
	}
	s.Schedules[stylistID][day] = &models.WeeklySchedule{
		StylistID:   stylistID,
		Weekday:     int(day),
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}
}

func (s *Store) AddLeave(stylistID string, from, to time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Leaves = append(s.Leaves, models.LeavePeriod{
		ID:        uuid.NewString(),
		StylistID: stylistID,
		StartDate: datatypes.Date(domain.DateOnly(from)),
		EndDate:   datatypes.Date(domain.DateOnly(to)),
	})
}

// AddBooking grava um agendamento direto, sem passar pelas regras.
func (s *Store) AddBooking(b models.Booking) *models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.tick()
	}
	cp := b
	s.Bookings[b.ID] = &cp
	return &cp
}

// tick gera created_at crescentes para ordenação estável.
func (s *Store) tick() time.Time {
	s.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// --------------------------------------------------
// domain.AvailabilityReader
// --------------------------------------------------

func (s *Store) GetWeeklySchedule(ctx context.Context, stylistID string, weekday time.Weekday) (*models.WeeklySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.Schedules[stylistID][weekday]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) FindLeaveCovering(ctx context.Context, stylistID string, date time.Time) (*models.LeavePeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := domain.DateOnly(date)
	for i := range s.Leaves {
		l := s.Leaves[i]
		if l.StylistID != stylistID {
			continue
		}
		if !day.Before(time.Time(l.StartDate)) && !day.After(time.Time(l.EndDate)) {
			return &l, nil
		}
	}
	return nil, nil
}

func (s *Store) FindActiveBookings(ctx context.Context, stylistID string, date time.Time, excludeID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailBookings != nil {
		return nil, s.FailBookings
	}
	var out []models.Booking
	for _, b := range s.Bookings {
		if b.StylistID != stylistID || b.ID == excludeID {
			continue
		}
		if !sameDay(b.Date(), date) || !domain.Status(b.Status).IsActive() {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// --------------------------------------------------
// domain.Repository
// --------------------------------------------------

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetService(ctx context.Context, id string) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc, ok := s.Services[id]; ok {
		cp := *svc
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := s.tick()
	b.CreatedAt, b.UpdatedAt = now, now
	cp := *b
	cp.Customer, cp.Stylist, cp.Service = nil, nil, nil
	s.Bookings[b.ID] = &cp
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.Bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetBookingDetailed(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[b.CustomerID]; ok {
		cp := *u
		b.Customer = &cp
	}
	if u, ok := s.Users[b.StylistID]; ok {
		cp := *u
		b.Stylist = &cp
	}
	if svc, ok := s.Services[b.ServiceID]; ok {
		cp := *svc
		b.Service = &cp
	}
	return b, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Bookings[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	cp.Customer, cp.Stylist, cp.Service = nil, nil, nil
	s.Bookings[b.ID] = &cp
	return nil
}

func (s *Store) ListBookings(ctx context.Context, f domain.ListFilter) ([]models.Booking, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Booking
	for _, b := range s.Bookings {
		if f.CustomerID != "" && b.CustomerID != f.CustomerID {
			continue
		}
		if f.StylistID != "" && b.StylistID != f.StylistID {
			continue
		}
		if f.ServiceID != "" && b.ServiceID != f.ServiceID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.DateFrom != nil && b.Date().Before(domain.DateOnly(*f.DateFrom)) {
			continue
		}
		if f.DateTo != nil && b.Date().After(domain.DateOnly(*f.DateTo)) {
			continue
		}
		all = append(all, *b)
	}

	less := func(a, b models.Booking) bool {
		switch f.SortBy {
		case "appointmentDate":
			if !a.Date().Equal(b.Date()) {
				return a.Date().Before(b.Date())
			}
		case "status":
			if a.Status != b.Status {
				return a.Status < b.Status
			}
		case "totalAmount":
			if !a.TotalAmount.Equal(b.TotalAmount) {
				return a.TotalAmount.LessThan(b.TotalAmount)
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if f.SortDesc {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})

	total := int64(len(all))
	start := f.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *Store) AppendHistory(ctx context.Context, h *models.BookingHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailHistory != nil {
		return s.FailHistory
	}
	h.ID = uint(len(s.History) + 1)
	h.CreatedAt = s.tick()
	s.History = append(s.History, *h)
	return nil
}

func (s *Store) ListHistory(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BookingHistory
	for _, h := range s.History {
		if h.BookingID == bookingID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context, w domain.StatsWindow) (*domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &domain.Stats{ByStatus: map[string]int64{}, AverageCompletedValue: decimal.Zero}
	counts := map[string]int64{}
	completedSum := decimal.Zero
	var completed int64

	in := func(d, from, to time.Time) bool { return !d.Before(from) && d.Before(to) }

	for _, b := range s.Bookings {
		st.Total++
		st.ByStatus[b.Status]++
		d := b.Date()
		if sameDay(d, w.Today) {
			st.Today++
		}
		if in(d, w.WeekStart, w.WeekEnd) {
			st.ThisWeek++
		}
		if in(d, w.MonthStart, w.MonthEnd) {
			st.ThisMonth++
		}
		if b.Status == string(domain.StatusCompleted) {
			completed++
			completedSum = completedSum.Add(b.TotalAmount)
		}
		counts[b.ServiceID]++
	}
	if completed > 0 {
		st.AverageCompletedValue = completedSum.Div(decimal.NewFromInt(completed)).Round(2)
	}

	for id, n := range counts {
		name := ""
		if svc, ok := s.Services[id]; ok {
			name = svc.Name
		}
		st.TopServices = append(st.TopServices, domain.ServiceCount{ServiceID: id, ServiceName: name, Count: n})
	}
	sort.Slice(st.TopServices, func(i, j int) bool {
		if st.TopServices[i].Count != st.TopServices[j].Count {
			return st.TopServices[i].Count > st.TopServices[j].Count
		}
		return st.TopServices[i].ServiceName < st.TopServices[j].ServiceName
	})
	if len(st.TopServices) > domain.TopServicesLimit {
		st.TopServices = st.TopServices[:domain.TopServicesLimit]
	}
	return st, nil
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

func (s *Store) WithSlotLock(ctx context.Context, stylistID string, date time.Time, fn func(tx domain.Repository) error) error {
	m := s.lockFor(fmt.Sprintf("slot:%s:%s", stylistID, date.Format("2006-01-02")))
	m.Lock()
	defer m.Unlock()
	return fn(s)
}

// --------------------------------------------------
// domain.PaymentRepository
// --------------------------------------------------

var (
	_ domain.PaymentRepository = (*Store)(nil)
	_ domain.ReviewRepository  = (*Store)(nil)
)

func (s *Store) ListPayments(ctx context.Context, bookingID string) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Payment
	for _, p := range s.Payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.tick()
	s.Payments = append(s.Payments, *p)
	return nil
}

func (s *Store) WithBookingLock(ctx context.Context, bookingID string, fn func(tx domain.PaymentRepository, b *models.Booking) error) error {
	m := s.lockFor("booking:" + bookingID)
	m.Lock()
	defer m.Unlock()

	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	return fn(s, b)
}

// --------------------------------------------------
// domain.ReviewRepository
// --------------------------------------------------

// AddReview grava uma review direto, sem regras.
func (s *Store) AddReview(r models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.tick()
	}
	s.Reviews = append(s.Reviews, r)
}

func (s *Store) FindReviewByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Reviews {
		if s.Reviews[i].BookingID == bookingID {
			r := s.Reviews[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Reviews {
		if existing.BookingID == r.BookingID {
			return domain.ErrDuplicate
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = s.tick()
	s.Reviews = append(s.Reviews, *r)
	return nil
}

func (s *Store) ListStylistReviews(ctx context.Context, stylistID string, page, limit int) ([]models.Review, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Review
	for _, r := range s.Reviews {
		if r.StylistID == stylistID {
			all = append(all, r)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *Store) StylistRating(ctx context.Context, stylistID string) (float64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum, n int64
	for _, r := range s.Reviews {
		if r.StylistID == stylistID {
			sum += int64(r.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// --------------------------------------------------
// Cadastros
// --------------------------------------------------

var (
	_ domain.AccountRepository  = (*Store)(nil)
	_ domain.CatalogRepository  = (*Store)(nil)
	_ domain.ScheduleRepository = (*Store)(nil)
	_ domain.AuditRepository    = (*Store)(nil)
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.tick()
	cp := *u
	s.Users[u.ID] = &cp
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *Store) ListUsers(ctx context.Context, role string, page, limit int) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.User
	for _, u := range s.Users {
		if role == "" || u.Role == role {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, page, limit), int64(len(all)), nil
}

func paginate[T any](all []T, page, limit int) []T {
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (s *Store) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Service
	for _, svc := range s.Services {
		if activeOnly && !svc.Active {
			continue
		}
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	cp := *svc
	s.Services[svc.ID] = &cp
	return nil
}

func (s *Store) UpdateService(ctx context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Services[svc.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *svc
	s.Services[svc.ID] = &cp
	return nil
}

func (s *Store) ListWeeklySchedule(ctx context.Context, stylistID string) ([]models.WeeklySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WeeklySchedule
	for _, row := range s.Schedules[stylistID] {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (s *Store) ReplaceWeeklySchedule(ctx context.Context, stylistID string, rows []models.WeeklySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := map[time.Weekday]*models.WeeklySchedule{}
	for i := range rows {
		row := rows[i]
		days[time.Weekday(row.Weekday)] = &row
	}
	s.Schedules[stylistID] = days
	return nil
}

func (s *Store) ListLeaves(ctx context.Context, stylistID string) ([]models.LeavePeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LeavePeriod
	for _, l := range s.Leaves {
		if l.StylistID == stylistID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) CreateLeave(ctx context.Context, l *models.LeavePeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.Leaves = append(s.Leaves, *l)
	return nil
}

func (s *Store) DeleteLeave(ctx context.Context, stylistID, leaveID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.Leaves {
		if l.ID == leaveID && l.StylistID == stylistID {
			s.Leaves = append(s.Leaves[:i], s.Leaves[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Write implementa audit.Writer.
func (s *Store) Write(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = uint(len(s.AuditLogs) + 1)
	entry.CreatedAt = s.tick()
	s.AuditLogs = append(s.AuditLogs, *entry)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, f domain.AuditFilter) ([]models.AuditLog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.AuditLog
	for i := len(s.AuditLogs) - 1; i >= 0; i-- {
		e := s.AuditLogs[i]
		switch {
		case f.Action != "" && e.Action != f.Action,
			f.Entity != "" && e.Entity != f.Entity,
			f.From != nil && e.CreatedAt.Before(*f.From),
			f.To != nil && !e.CreatedAt.Before(*f.To):
			continue
		}
		all = append(all, e)
	}
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}
