package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"gorm.io/gorm"
)

var userSortColumns = map[string]string{
	"id":               "id",
	"login":            "login",
	"firstName":        "first_name",
	"lastName":         "last_name",
	"email":            "email",
	"activated":        "activated",
	"langKey":          "lang_key",
	"createdBy":        "created_by",
	"createdDate":      "created_date",
	"lastModifiedBy":   "last_modified_by",
	"lastModifiedDate": "last_modified_date",
}

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindOneByLogin returns a user with its authorities
func (r *UserRepo) FindOneByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Authorities").
		Where("login = ?", strings.ToLower(login)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return &user, nil
}

// Create inserts a user and links its authorities
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.Login = strings.ToLower(user.Login)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errs.NewDatabaseError("create", "user", err)
	}
	return nil
}

// Update saves the user's columns and replaces its authorities
func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	user.Login = strings.ToLower(user.Login)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authorities").Save(user).Error; err != nil {
			return err
		}
		return tx.Model(user).Association("Authorities").Replace(user.Authorities)
	})
	if err != nil {
		return errs.NewDatabaseError("update", "user", err)
	}
	return nil
}

// FindAllActivated returns a page of activated users
func (r *UserRepo) FindAllActivated(ctx context.Context, pageable models.Pageable) ([]models.User, error) {
	return r.findPage(ctx, pageable, r.db.WithContext(ctx).Where("activated = ?", true))
}

func (r *UserRepo) CountActivated(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("activated = ?", true).Count(&total).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "users", err)
	}
	return total, nil
}

// FindAll returns a page of users with their authorities
func (r *UserRepo) FindAll(ctx context.Context, pageable models.Pageable) ([]models.User, error) {
	return r.findPage(ctx, pageable, r.db.WithContext(ctx).Preload("Authorities"))
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "users", err)
	}
	return total, nil
}

func (r *UserRepo) findPage(ctx context.Context, pageable models.Pageable, query *gorm.DB) ([]models.User, error) {
	order, err := orderColumns(pageable.Sort)
	if err != nil {
		return nil, err
	}
	var users []models.User
	err = query.
		Order(order).
		Offset(int(pageable.Offset())).
		Limit(pageable.Size).
		Find(&users).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "users", err)
	}
	return users, nil
}

// orderColumns maps API sort orders onto columns, ending on id so that
// pages are stable.
func orderColumns(orders []models.SortOrder) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	sortedByID := false
	for _, order := range orders {
		column, ok := userSortColumns[order.Property]
		if !ok {
			return "", errs.NewBadRequestError(fmt.Sprintf("cannot sort by '%s'", order.Property))
		}
		direction := "asc"
		if order.Descending {
			direction = "desc"
		}
		if column == "id" {
			sortedByID = true
		}
		parts = append(parts, column+" "+direction)
	}
	if !sortedByID {
		parts = append(parts, "id asc")
	}
	return strings.Join(parts, ", "), nil
}
