package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/sankofa/internal/models"
)

// NewGormStore wraps a gorm connection in the store contract.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:     &gormUserStore{db: db},
		Otps:      &gormOtpStore{db: db},
		Sessions:  &gormSessionStore{db: db},
		Employees: &gormEmployeeStore{db: db},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) Create(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *gormUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormUserStore) GetByContact(ctx context.Context, contact string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email_address = ? OR phone_number = ?", contact, contact).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormUserStore) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

func (s *gormUserStore) Update(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Save(user).Error)
}

func (s *gormUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormOtpStore struct {
	db *gorm.DB
}

func (s *gormOtpStore) Upsert(ctx context.Context, otp *models.Otp) error {
	// Conflict on user_id keeps the one-live-code-per-user invariant even
	// under concurrent issues.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
	}).Create(otp).Error
	return translate(err)
}

func (s *gormOtpStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Otp, error) {
	var otp models.Otp
	if err := s.db.WithContext(ctx).First(&otp, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &otp, nil
}

func (s *gormOtpStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Otp{}, "user_id = ?", userID).Error)
}

type gormSessionStore struct {
	db *gorm.DB
}

func (s *gormSessionStore) Create(ctx context.Context, session *models.RefreshSession) error {
	return translate(s.db.WithContext(ctx).Create(session).Error)
}

func (s *gormSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.RefreshSession, error) {
	var session models.RefreshSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *gormSessionStore) Replace(ctx context.Context, oldID uuid.UUID, next *models.RefreshSession) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.RefreshSession{}, "id = ?", oldID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(next).Error
	})
	return translate(err)
}

func (s *gormSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.RefreshSession{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormEmployeeStore struct {
	db *gorm.DB
}

func (s *gormEmployeeStore) Create(ctx context.Context, employee *models.Employee) error {
	return translate(s.db.WithContext(ctx).Create(employee).Error)
}

func (s *gormEmployeeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (s *gormEmployeeStore) List(ctx context.Context, offset, limit int) ([]models.Employee, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var employees []models.Employee
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return employees, total, nil
}

func (s *gormEmployeeStore) Update(ctx context.Context, employee *models.Employee) error {
	return translate(s.db.WithContext(ctx).Save(employee).Error)
}

func (s *gormEmployeeStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
