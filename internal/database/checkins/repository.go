package checkins

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

const DefaultRecentCheckInsLimit = 30

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

func (r *Repository) GetAllCheckIns() ([]entities.HealthCheckIn, error) {
	var checkIns []entities.HealthCheckIn
	err := r.db.Order("date DESC").Order("id DESC").Find(&checkIns).Error
	return checkIns, err
}

func (r *Repository) WatchAllCheckIns(ctx context.Context) <-chan live.Result[[]entities.HealthCheckIn] {
	return live.Watch(ctx, r.tracker, r.GetAllCheckIns, entities.TableHealthCheckIns)
}

// GetRecentCheckIns returns the latest check-ins. A non-positive limit uses DefaultRecentCheckInsLimit.
func (r *Repository) GetRecentCheckIns(limit int) ([]entities.HealthCheckIn, error) {
	if limit <= 0 {
		limit = DefaultRecentCheckInsLimit
	}
	var checkIns []entities.HealthCheckIn
	err := r.db.Order("date DESC").Order("id DESC").Limit(limit).Find(&checkIns).Error
	return checkIns, err
}

func (r *Repository) WatchRecentCheckIns(ctx context.Context, limit int) <-chan live.Result[[]entities.HealthCheckIn] {
	return live.Watch(ctx, r.tracker, func() ([]entities.HealthCheckIn, error) {
		return r.GetRecentCheckIns(limit)
	}, entities.TableHealthCheckIns)
}

// GetCheckInsBetweenDates returns check-ins dated within [start, end].
func (r *Repository) GetCheckInsBetweenDates(start, end time.Time) ([]entities.HealthCheckIn, error) {
	var checkIns []entities.HealthCheckIn
	err := r.db.Where("date BETWEEN ? AND ?", start.UTC(), end.UTC()).Order("date DESC").Find(&checkIns).Error
	return checkIns, err
}

func (r *Repository) WatchCheckInsBetweenDates(ctx context.Context, start, end time.Time) <-chan live.Result[[]entities.HealthCheckIn] {
	return live.Watch(ctx, r.tracker, func() ([]entities.HealthCheckIn, error) {
		return r.GetCheckInsBetweenDates(start, end)
	}, entities.TableHealthCheckIns)
}

func (r *Repository) GetCheckInByID(id int64) (*entities.HealthCheckIn, error) {
	var checkIn entities.HealthCheckIn
	if err := r.db.First(&checkIn, id).Error; err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// GetCheckInForDate returns the check-in dated within [startOfDay, endOfDay), or nil.
func (r *Repository) GetCheckInForDate(startOfDay, endOfDay time.Time) (*entities.HealthCheckIn, error) {
	var checkIns []entities.HealthCheckIn
	err := r.db.Where("date >= ? AND date < ?", startOfDay.UTC(), endOfDay.UTC()).Limit(1).Find(&checkIns).Error
	if err != nil || len(checkIns) == 0 {
		return nil, err
	}
	return &checkIns[0], nil
}

// Insert validates and stores the check-in, returning its id.
func (r *Repository) Insert(checkIn *entities.HealthCheckIn) (int64, error) {
	if err := checkIn.Validate(); err != nil {
		return 0, err
	}
	if checkIn.Symptoms == nil {
		checkIn.Symptoms = []string{}
	}
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(checkIn).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableHealthCheckIns)
	return checkIn.ID, nil
}

func (r *Repository) Update(checkIn *entities.HealthCheckIn) error {
	if err := checkIn.Validate(); err != nil {
		return err
	}
	if checkIn.Symptoms == nil {
		checkIn.Symptoms = []string{}
	}
	if err := r.db.Model(checkIn).Select("*").Omit("created_at").Updates(checkIn).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableHealthCheckIns)
	return nil
}

func (r *Repository) Delete(checkIn *entities.HealthCheckIn) error {
	return r.DeleteByID(checkIn.ID)
}

func (r *Repository) DeleteByID(id int64) error {
	if err := r.db.Delete(&entities.HealthCheckIn{}, id).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableHealthCheckIns)
	return nil
}
