package appointments

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetAllAppointments returns appointments soonest first.
func (r *Repository) GetAllAppointments() ([]entities.Appointment, error) {
	var appts []entities.Appointment
	err := r.db.Order("date_time ASC").Find(&appts).Error
	return appts, err
}

func (r *Repository) WatchAllAppointments(ctx context.Context) <-chan live.Result[[]entities.Appointment] {
	return live.Watch(ctx, r.tracker, r.GetAllAppointments, entities.TableAppointments)
}

// GetUpcomingAppointments returns appointments at or after from.
func (r *Repository) GetUpcomingAppointments(from time.Time) ([]entities.Appointment, error) {
	var appts []entities.Appointment
	err := r.db.Where("date_time >= ?", from.UTC()).Order("date_time ASC").Find(&appts).Error
	return appts, err
}

func (r *Repository) WatchUpcomingAppointments(ctx context.Context, from time.Time) <-chan live.Result[[]entities.Appointment] {
	return live.Watch(ctx, r.tracker, func() ([]entities.Appointment, error) {
		return r.GetUpcomingAppointments(from)
	}, entities.TableAppointments)
}

// GetAppointmentsBetweenDates returns appointments within [start, end].
func (r *Repository) GetAppointmentsBetweenDates(start, end time.Time) ([]entities.Appointment, error) {
	var appts []entities.Appointment
	err := r.db.Where("date_time BETWEEN ? AND ?", start.UTC(), end.UTC()).Order("date_time ASC").Find(&appts).Error
	return appts, err
}

func (r *Repository) WatchAppointmentsBetweenDates(ctx context.Context, start, end time.Time) <-chan live.Result[[]entities.Appointment] {
	return live.Watch(ctx, r.tracker, func() ([]entities.Appointment, error) {
		return r.GetAppointmentsBetweenDates(start, end)
	}, entities.TableAppointments)
}

func (r *Repository) GetAppointmentByID(id int64) (*entities.Appointment, error) {
	var appt entities.Appointment
	if err := r.db.First(&appt, id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *Repository) Insert(appt *entities.Appointment) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(appt).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableAppointments)
	return appt.ID, nil
}

func (r *Repository) Update(appt *entities.Appointment) error {
	if err := r.db.Model(appt).Select("*").Omit("created_at").Updates(appt).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableAppointments)
	return nil
}

func (r *Repository) Delete(appt *entities.Appointment) error {
	return r.DeleteByID(appt.ID)
}

func (r *Repository) DeleteByID(id int64) error {
	if err := r.db.Delete(&entities.Appointment{}, id).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableAppointments)
	return nil
}
