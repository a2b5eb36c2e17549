package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	// -------- Professional --------
	GetProfessional(
		ctx context.Context,
		salonID uint,
		professionalID uint,
	) (*models.Professional, error)

	// LockProfessional reads the professional and holds a row lock on it
	// until the surrounding transaction ends.
	LockProfessional(
		ctx context.Context,
		salonID uint,
		professionalID uint,
	) (*models.Professional, error)

	// -------- Service --------
	ListServicesByIDs(
		ctx context.Context,
		salonID uint,
		ids []uint,
	) ([]models.Service, error)

	// -------- Calendar --------
	// ListWorkingHours returns the rows owned by professionalID, or the salon
	// default rows when professionalID is 0.
	ListWorkingHours(
		ctx context.Context,
		salonID uint,
		professionalID uint,
	) ([]models.WorkingHours, error)

	ReplaceWorkingHours(
		ctx context.Context,
		salonID uint,
		professionalID uint,
		rows []models.WorkingHours,
	) error

	// -------- Closure --------
	// ListClosures returns closures overlapping [from, to) that are salon-wide
	// or belong to professionalID. professionalID 0 returns all of them.
	ListClosures(
		ctx context.Context,
		salonID uint,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.Closure, error)

	CreateClosure(
		ctx context.Context,
		c *models.Closure,
	) error

	DeleteClosure(
		ctx context.Context,
		salonID uint,
		closureID uint,
	) error

	// -------- Customer --------
	FindCustomerByPhone(
		ctx context.Context,
		salonID uint,
		phone string,
	) (*models.Customer, error)

	// UpsertCustomer inserts by (salon, phone) or refreshes the name of the
	// existing row, filling c.ID either way.
	UpsertCustomer(
		ctx context.Context,
		c *models.Customer,
	) error

	// -------- Appointment (create / conflict) --------
	// ListBlockingAppointments returns confirmed and completed appointments of
	// the professional overlapping [from, to), ordered by start.
	ListBlockingAppointments(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	GetAppointmentByReference(
		ctx context.Context,
		reference string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	// ListAppointmentsForPeriod lists appointments starting in [start, end).
	// professionalID 0 lists the whole salon.
	ListAppointmentsForPeriod(
		ctx context.Context,
		salonID uint,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsByPhone(
		ctx context.Context,
		phone string,
		from time.Time,
	) ([]models.Appointment, error)

	// -------- Transaction --------
	Transact(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
