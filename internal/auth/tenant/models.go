package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/pkg/idx"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("tenant: record not found")

// Models are the typed repositories over one tenant database.
type Models struct {
	Staff  *StaffRepo
	Shifts *ShiftRepo
	Alerts *AlertRepo
	Users  *UserRepo
}

func NewModels(db *gorm.DB) *Models {
	return &Models{
		Staff:  &StaffRepo{db: db},
		Shifts: &ShiftRepo{db: db},
		Alerts: &AlertRepo{db: db},
		Users:  &UserRepo{db: db},
	}
}

func mapRecordNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

type StaffRepo struct {
	db *gorm.DB
}

func (r *StaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	if s.ID == "" {
		s.ID = idx.New().String()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *StaffRepo) Get(ctx context.Context, id string) (domain.Staff, error) {
	var s domain.Staff
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return s, mapRecordNotFound(err)
}

func (r *StaffRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Staff{}).Count(&n).Error
	return n, err
}

func (r *StaffRepo) CountByStatus(ctx context.Context, status domain.StaffStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Staff{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// CountCompliant counts staff whose certification is still valid at now.
func (r *StaffRepo) CountCompliant(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Staff{}).
		Where("certification_expiry IS NOT NULL AND certification_expiry > ?", now).
		Count(&n).Error
	return n, err
}

type ShiftRepo struct {
	db *gorm.DB
}

func (r *ShiftRepo) Create(ctx context.Context, s *domain.Shift) error {
	if s.ID == "" {
		s.ID = idx.New().String()
	}
	return r.db.WithContext(ctx).Omit("Staff").Create(s).Error
}

func (r *ShiftRepo) CountByStatus(ctx context.Context, status domain.ShiftStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Shift{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// Upcoming returns shifts that are in progress or scheduled to end after
// now, earliest start first, with their staff member loaded.
func (r *ShiftRepo) Upcoming(ctx context.Context, now time.Time, limit int) ([]domain.Shift, error) {
	var shifts []domain.Shift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("status = ? OR (status = ? AND end_time > ?)", domain.ShiftInProgress, domain.ShiftScheduled, now).
		Order("start_time ASC").
		Limit(limit).
		Find(&shifts).Error
	return shifts, err
}

type AlertRepo struct {
	db *gorm.DB
}

func (r *AlertRepo) Create(ctx context.Context, a *domain.Alert) error {
	if a.ID == "" {
		a.ID = idx.New().String()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AlertRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Alert{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}

// Recent returns the newest alerts first.
func (r *AlertRepo) Recent(ctx context.Context, limit int) ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&alerts).Error
	return alerts, err
}

type UserRepo struct {
	db *gorm.DB
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = idx.New().String()
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return u, mapRecordNotFound(err)
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}
