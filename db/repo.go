package db

import (
	"context"
	"strings"

	"library_circulation/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Users

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *Repo) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// Members (manager-facing listing; managers themselves are excluded)

type ListMembersResult struct {
	Members []models.User `json:"members"`
	Total   int64         `json:"total"`
}

func (r *Repo) ListMembers(ctx context.Context, q string, page, size int) (ListMembersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 25
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleMember)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListMembersResult{}, err
	}

	var members []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&members).Error; err != nil {
		return ListMembersResult{}, err
	}
	return ListMembersResult{Members: members, Total: total}, nil
}

func (r *Repo) FindMemberByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleMember).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUserByID removes the user and every loan in their history.
func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{ID: id}).Error
	})
}
