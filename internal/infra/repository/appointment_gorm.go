package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &salon, nil
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND active = ?", professionalID, salonID, true).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) LockProfessional(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ? AND active = ?", professionalID, salonID, true).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) ListServicesByIDs(
	ctx context.Context,
	salonID uint,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}

	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = ? AND id IN ?", salonID, true, ids).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND professional_id = ?", salonID, professionalID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	rows []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("salon_id = ? AND professional_id = ?", salonID, professionalID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		for i := range rows {
			rows[i].ID = 0
			rows[i].SalonID = salonID
			rows[i].ProfessionalID = professionalID
		}
		return tx.Create(&rows).Error
	})
}

// --------------------------------------------------
// Closure
// --------------------------------------------------

func (r *AppointmentGormRepository) ListClosures(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.Closure, error) {

	q := r.db.WithContext(ctx).
		Where("salon_id = ? AND start_time < ? AND end_time > ?", salonID, to.UTC(), from.UTC())

	if professionalID != 0 {
		q = q.Where("professional_id IS NULL OR professional_id = ?", professionalID)
	}

	var closures []models.Closure
	if err := q.Order("start_time ASC").Find(&closures).Error; err != nil {
		return nil, err
	}
	return closures, nil
}

func (r *AppointmentGormRepository) CreateClosure(
	ctx context.Context,
	c *models.Closure,
) error {
	c.StartTime = c.StartTime.UTC()
	c.EndTime = c.EndTime.UTC()
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *AppointmentGormRepository) DeleteClosure(
	ctx context.Context,
	salonID uint,
	closureID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", closureID, salonID).
		Delete(&models.Closure{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) FindCustomerByPhone(
	ctx context.Context,
	salonID uint,
	phone string,
) (*models.Customer, error) {

	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		First(&customer).Error; err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

func (r *AppointmentGormRepository) UpsertCustomer(
	ctx context.Context,
	c *models.Customer,
) error {

	db := r.db.WithContext(ctx)

	if c.LastAppointmentAt != nil {
		at := c.LastAppointmentAt.UTC()
		c.LastAppointmentAt = &at
	}

	// last_appointment_at only moves forward
	updates := clause.AssignmentColumns([]string{"name", "updated_at"})
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "last_appointment_at"},
		Value: gorm.Expr(
			"CASE WHEN customers.last_appointment_at IS NULL OR excluded.last_appointment_at > customers.last_appointment_at " +
				"THEN excluded.last_appointment_at ELSE customers.last_appointment_at END",
		),
	})

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "salon_id"}, {Name: "phone"}},
		DoUpdates: updates,
	}).Create(c).Error; err != nil {
		return err
	}

	// some drivers do not return the id of an updated row
	if c.ID == 0 {
		existing, err := r.FindCustomerByPhone(ctx, c.SalonID, c.Phone)
		if err != nil {
			return err
		}
		c.ID = existing.ID
	}
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlockingAppointments(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID, domain.BlockingStatuses(), to.UTC(), from.UTC(),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// CreateAppointment inserts the appointment with its service snapshot.
// Constraint violations are returned untouched so callers can classify them.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()

	if err := r.db.WithContext(ctx).
		Omit("Professional", "Customer").
		Create(ap).Error; err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Appointment (Cancel / Complete)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByReference(
	ctx context.Context,
	reference string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("reference = ?", reference).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Professional").
		Preload("Services").
		Where("salon_id = ? AND start_time >= ? AND start_time < ?", salonID, start.UTC(), end.UTC())

	if professionalID != 0 {
		q = q.Where("professional_id = ?", professionalID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsByPhone(
	ctx context.Context,
	phone string,
	from time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Professional").
		Preload("Services").
		Where("customer_phone = ? AND start_time >= ?", phone, from.UTC()).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transact(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
