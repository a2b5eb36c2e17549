// Package repotest provides an in-memory appointment repository for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

// Repository keeps everything in process. Transactions are serialised and
// undo only their own writes on error, and the (professional, start) rule for
// active appointments is enforced like the database index.
type Repository struct {
	mu    *sync.Mutex
	txMu  *sync.Mutex
	state *memState

	// undo is set on the handle passed to a Transact callback
	undo *[]func()
}

type memState struct {
	nextID        uint
	salons        map[uint]models.Salon
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	hours         []models.WorkingHours
	closures      map[uint]models.Closure
	customers     map[uint]models.Customer
	appointments  map[uint]models.Appointment
}

// record keeps the inverse of a write made inside a transaction. Callers hold mu.
func (r *Repository) record(inverse func()) {
	if r.undo != nil {
		*r.undo = append(*r.undo, inverse)
	}
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

func New() *Repository {
	return &Repository{
		mu:   &sync.Mutex{},
		txMu: &sync.Mutex{},
		state: &memState{
			salons:        map[uint]models.Salon{},
			professionals: map[uint]models.Professional{},
			services:      map[uint]models.Service{},
			closures:      map[uint]models.Closure{},
			customers:     map[uint]models.Customer{},
			appointments:  map[uint]models.Appointment{},
		},
	}
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

func (r *Repository) PutSalon(s *models.Salon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.state.id()
	}
	r.state.salons[s.ID] = *s
}

func (r *Repository) PutProfessional(p *models.Professional) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.state.id()
	}
	r.state.professionals[p.ID] = *p
}

func (r *Repository) PutService(s *models.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.state.id()
	}
	r.state.services[s.ID] = *s
}

// --------------------------------------------------
// Salon / Professional / Service
// --------------------------------------------------

func (r *Repository) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.state.salons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *Repository) GetProfessional(_ context.Context, salonID, professionalID uint) (*models.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.state.professionals[professionalID]
	if !ok || p.SalonID != salonID || !p.Active {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// LockProfessional relies on Transact serialising every transaction.
func (r *Repository) LockProfessional(ctx context.Context, salonID, professionalID uint) (*models.Professional, error) {
	return r.GetProfessional(ctx, salonID, professionalID)
}

func (r *Repository) ListServicesByIDs(_ context.Context, salonID uint, ids []uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Service
	for _, id := range ids {
		s, ok := r.state.services[id]
		if ok && s.SalonID == salonID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *Repository) ListWorkingHours(_ context.Context, salonID, professionalID uint) ([]models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.WorkingHours
	for _, wh := range r.state.hours {
		if wh.SalonID == salonID && wh.ProfessionalID == professionalID {
			out = append(out, wh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (r *Repository) ReplaceWorkingHours(_ context.Context, salonID, professionalID uint, rows []models.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[int]bool{}
	for _, row := range rows {
		if seen[row.Weekday] {
			return fmt.Errorf("replace working hours: weekday %d: %w", row.Weekday, gorm.ErrDuplicatedKey)
		}
		seen[row.Weekday] = true
	}

	var kept, removed []models.WorkingHours
	for _, wh := range r.state.hours {
		if wh.SalonID == salonID && wh.ProfessionalID == professionalID {
			removed = append(removed, wh)
			continue
		}
		kept = append(kept, wh)
	}
	added := map[uint]bool{}
	for i := range rows {
		rows[i].ID = r.state.id()
		rows[i].SalonID = salonID
		rows[i].ProfessionalID = professionalID
		added[rows[i].ID] = true
		kept = append(kept, rows[i])
	}
	r.state.hours = kept

	r.record(func() {
		restored := removed
		for _, wh := range r.state.hours {
			if !added[wh.ID] {
				restored = append(restored, wh)
			}
		}
		r.state.hours = restored
	})
	return nil
}

// --------------------------------------------------
// Closure
// --------------------------------------------------

func (r *Repository) ListClosures(_ context.Context, salonID, professionalID uint, from, to time.Time) ([]models.Closure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Closure
	for _, c := range r.state.closures {
		if c.SalonID != salonID || !c.StartTime.Before(to) || !c.EndTime.After(from) {
			continue
		}
		if professionalID != 0 && c.ProfessionalID != nil && *c.ProfessionalID != professionalID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *Repository) CreateClosure(_ context.Context, c *models.Closure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.state.id()
	c.CreatedAt = time.Now()
	r.state.closures[c.ID] = *c

	id := c.ID
	r.record(func() { delete(r.state.closures, id) })
	return nil
}

func (r *Repository) DeleteClosure(_ context.Context, salonID, closureID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.state.closures[closureID]
	if !ok || c.SalonID != salonID {
		return domain.ErrNotFound
	}
	delete(r.state.closures, closureID)

	r.record(func() { r.state.closures[closureID] = c })
	return nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *Repository) FindCustomerByPhone(_ context.Context, salonID uint, phone string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.state.customers {
		if c.SalonID == salonID && c.Phone == phone {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repository) UpsertCustomer(_ context.Context, c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, existing := range r.state.customers {
		if existing.SalonID == c.SalonID && existing.Phone == c.Phone {
			previous := existing
			existing.Name = c.Name
			if laterThan(c.LastAppointmentAt, existing.LastAppointmentAt) {
				existing.LastAppointmentAt = c.LastAppointmentAt
			}
			existing.UpdatedAt = now
			r.state.customers[id] = existing
			*c = existing

			r.record(func() { r.state.customers[id] = previous })
			return nil
		}
	}

	c.ID = r.state.id()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.state.customers[c.ID] = *c

	id := c.ID
	r.record(func() { delete(r.state.customers, id) })
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *Repository) ListBlockingAppointments(_ context.Context, professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if ap.ProfessionalID != professionalID || !domain.Status(ap.Status).Blocks() {
			continue
		}
		if ap.StartTime.Before(to) && ap.EndTime.After(from) {
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *Repository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.state.appointments {
		if existing.ProfessionalID == ap.ProfessionalID &&
			existing.Status != string(domain.StatusCancelled) &&
			existing.StartTime.Equal(ap.StartTime) {
			return fmt.Errorf("create appointment: %w", gorm.ErrDuplicatedKey)
		}
		if ap.Reference != "" && existing.Reference == ap.Reference {
			return fmt.Errorf("create appointment: %w", gorm.ErrDuplicatedKey)
		}
	}

	now := time.Now()
	ap.ID = r.state.id()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	services := make([]models.AppointmentService, len(ap.Services))
	for i, s := range ap.Services {
		s.ID = r.state.id()
		s.AppointmentID = ap.ID
		services[i] = s
	}
	ap.Services = services

	r.state.appointments[ap.ID] = *ap

	id := ap.ID
	r.record(func() { delete(r.state.appointments, id) })
	return nil
}

func (r *Repository) GetAppointment(_ context.Context, salonID, appointmentID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.state.appointments[appointmentID]
	if !ok || ap.SalonID != salonID {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *Repository) GetAppointmentByReference(_ context.Context, reference string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.state.appointments {
		if ap.Reference == reference {
			return &ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.state.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}
	ap.UpdatedAt = time.Now()
	r.state.appointments[ap.ID] = *ap

	r.record(func() { r.state.appointments[previous.ID] = previous })
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *Repository) ListAppointmentsForPeriod(_ context.Context, salonID, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if ap.SalonID != salonID || (professionalID != 0 && ap.ProfessionalID != professionalID) {
			continue
		}
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			ap.Professional = r.state.professionals[ap.ProfessionalID]
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *Repository) ListAppointmentsByPhone(_ context.Context, phone string, from time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.state.appointments {
		if ap.CustomerPhone == phone && !ap.StartTime.Before(from) {
			ap.Professional = r.state.professionals[ap.ProfessionalID]
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out, nil
}

// laterThan treats a missing time as earlier than any other.
func laterThan(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	return b == nil || a.After(*b)
}

func sortByStart(apps []models.Appointment) {
	sort.Slice(apps, func(i, j int) bool { return apps[i].StartTime.Before(apps[j].StartTime) })
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *Repository) Transact(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.undo != nil {
		return fn(r)
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	undo := []func(){}
	tx := &Repository{mu: r.mu, txMu: r.txMu, state: r.state, undo: &undo}
	if err := fn(tx); err != nil {
		r.mu.Lock()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*Repository)(nil)
