package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/badziek/logitrans-app/internal/models"
)

type LoadRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewLoadRepo(db *gorm.DB, timeout time.Duration) *LoadRepo {
	return &LoadRepo{db: db, timeout: timeout}
}

// List returns loads ordered by (time_slot, lane, seq), optionally
// filtered to one time slot. Board assembly relies on this ordering.
func (r *LoadRepo) List(ctx context.Context, timeSlot string) ([]models.Load, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(ctx).Order("time_slot, lane, seq")
	if timeSlot != "" {
		q = q.Where("time_slot = ?", timeSlot)
	}

	var loads []models.Load
	if err := q.Find(&loads).Error; err != nil {
		return nil, fmt.Errorf("list loads: %w", err)
	}
	return loads, nil
}

func (r *LoadRepo) GetByID(ctx context.Context, id uint) (*models.Load, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var load models.Load
	if err := r.db.WithContext(ctx).First(&load, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get load by id: %w", err)
	}
	return &load, nil
}

func (r *LoadRepo) Create(ctx context.Context, load *models.Load) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(load).Error; err != nil {
		return fmt.Errorf("create load: %w", err)
	}
	return nil
}

func (r *LoadRepo) CreateBatch(ctx context.Context, loads []models.Load) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(&loads).Error; err != nil {
		return fmt.Errorf("create loads: %w", err)
	}
	return nil
}

// Update applies a column→value map to one load. Callers build the map
// from the enumerated editable field set; nil values write NULL.
func (r *LoadRepo) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Load{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update load: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LoadRepo) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Load{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete load: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateHeader rewrites the submitted header columns on every row of
// the (origTimeSlot, lane) column and returns how many rows changed.
// A time_slot entry in updates moves the whole column to a new slot.
func (r *LoadRepo) UpdateHeader(ctx context.Context, origTimeSlot, lane string, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Load{}).
		Where("time_slot = ? AND lane = ?", origTimeSlot, lane).
		Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("update header: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ClearLane nulls planned/done/lo_code/picker on every row of the
// column, leaving header fields and row identity intact.
func (r *LoadRepo) ClearLane(ctx context.Context, timeSlot, lane string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Load{}).
		Where("time_slot = ? AND lane = ?", timeSlot, lane).
		Updates(map[string]interface{}{
			"planned": nil,
			"done":    nil,
			"lo_code": "",
			"picker":  "",
		})
	if res.Error != nil {
		return 0, fmt.Errorf("clear lane: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *LoadRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Load{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count loads: %w", err)
	}
	return count, nil
}

func (r *LoadRepo) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Load{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete all loads: %w", res.Error)
	}
	return res.RowsAffected, nil
}
