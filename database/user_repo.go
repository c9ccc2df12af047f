package database

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindAll returns all users ordered by id
func (r *UserRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// FindByID returns a user by its ID
func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail looks the user up case-insensitively.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user after checking the email is free
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)
	if err := r.checkEmail(ctx, user.Email, 0); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// Update saves every column of an existing user
func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)
	if err := r.checkEmail(ctx, user.Email, user.ID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit("Articles").Save(user).Error
}

// Delete removes a user. Owned projects keep existing without an owner;
// authored articles block the delete.
func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var articles int64
		if err := tx.Model(&models.Article{}).Where("author_id = ?", id).Count(&articles).Error; err != nil {
			return err
		}
		if articles > 0 {
			return errs.NewConflictError("user still authors articles")
		}

		if err := tx.Model(&models.Project{}).Where("owner_id = ?", id).Update("owner_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// EnsureAdmin creates the account or grants ROLE_ADMIN to an existing one.
// passwordHash is only used when the account is created.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, passwordHash string) (*models.User, bool, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if user == nil {
		user = &models.User{
			Email:    email,
			Password: passwordHash,
			Roles:    []string{models.RoleAdmin},
			Name:     "Admin",
			Surname:  "Admin",
		}
		if err := r.Add(ctx, user); err != nil {
			return nil, false, err
		}
		return user, true, nil
	}

	if user.HasRole(models.RoleAdmin) {
		return user, false, nil
	}
	user.Roles = append(user.Roles, models.RoleAdmin)
	if err := r.db.WithContext(ctx).Model(user).Update("roles", user.Roles).Error; err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (r *UserRepo) checkEmail(ctx context.Context, email string, exceptID uint) error {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.NewAlreadyExists("user", "email")
	}
	return nil
}
