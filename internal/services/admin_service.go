package services

import (
	"context"
	"errors"
	"fmt"

	"wayfinder/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminExists     = errors.New("admin username already exists")
	ErrRootDemotion    = errors.New("root admins cannot change their own role")
	ErrSelfDelete      = errors.New("admins cannot delete their own account here")
	ErrRootSelfService = errors.New("root admins cannot delete their account from the profile page")
	ErrWrongPassword   = errors.New("current password is incorrect")
)

// AdminService manages back-office accounts. It enforces the self-service
// guardrails: a root admin can never demote or delete themselves, and only
// regular admins may remove their own account via the profile page.
type AdminService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewAdminService(db *gorm.DB, logger *logrus.Logger) *AdminService {
	if logger == nil {
		logger = logrus.New()
	}
	return &AdminService{db: db, logger: logger}
}

// AdminUpdateRequest carries the editable fields of an admin account. An
// empty Password leaves the credential unchanged.
type AdminUpdateRequest struct {
	Username string
	Password string
	Role     string
}

// Authenticate verifies an admin username/password pair.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

// Get returns an admin by id.
func (s *AdminService) Get(ctx context.Context, adminID uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).First(&admin, adminID).Error; err != nil {
		return nil, fmt.Errorf("admin not found: %w", err)
	}
	return &admin, nil
}

// List returns all admin accounts.
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// Create adds an admin account. Role defaults to regular.
func (s *AdminService) Create(ctx context.Context, username, password, role string) (*models.Admin, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check admin username: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	if role != models.RoleRoot {
		role = models.RoleRegular
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Infof("Created admin %s with role %s", username, role)
	return admin, nil
}

// Update edits an admin account on behalf of actorID. A root admin editing
// themselves keeps the root role no matter what the request says.
func (s *AdminService) Update(ctx context.Context, adminID, actorID uint, req *AdminUpdateRequest) (*models.Admin, error) {
	admin, err := s.Get(ctx, adminID)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role != models.RoleRoot {
		role = models.RoleRegular
	}
	if admin.ID == actorID && admin.Role == models.RoleRoot && role != models.RoleRoot {
		return nil, ErrRootDemotion
	}

	admin.Username = req.Username
	admin.Role = role
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		admin.PasswordHash = string(hash)
	}

	if err := s.db.WithContext(ctx).Save(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}

	s.logger.Infof("Updated admin %d by admin %d", adminID, actorID)
	return admin, nil
}

// Delete removes another admin's account. Deleting yourself through the
// management surface is refused.
func (s *AdminService) Delete(ctx context.Context, adminID, actorID uint) error {
	if adminID == actorID {
		return ErrSelfDelete
	}
	admin, err := s.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(admin).Error; err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	s.logger.Infof("Deleted admin %d by admin %d", adminID, actorID)
	return nil
}

// DeleteOwn removes the caller's own account. Only regular admins may do
// this; root accounts must be handled through the management surface.
func (s *AdminService) DeleteOwn(ctx context.Context, adminID uint) error {
	admin, err := s.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.Role == models.RoleRoot {
		return ErrRootSelfService
	}
	if err := s.db.WithContext(ctx).Delete(admin).Error; err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	s.logger.Infof("Admin %d deleted their own account", adminID)
	return nil
}

// ChangePassword updates the caller's credential after verifying the
// current one.
func (s *AdminService) ChangePassword(ctx context.Context, adminID uint, currentPassword, newPassword string) error {
	admin, err := s.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", adminID).
		Update("password_hash", string(hash)).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Infof("Admin %d changed their password", adminID)
	return nil
}

// Bootstrap seeds a root admin when the admins table is empty, so a fresh
// deployment has a way into the back office.
func (s *AdminService) Bootstrap(ctx context.Context, username, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.Create(ctx, username, password, models.RoleRoot); err != nil {
		return err
	}
	s.logger.Warnf("Seeded root admin %q with the configured bootstrap password; change it", username)
	return nil
}
