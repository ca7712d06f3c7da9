package database

import (
	"context"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorityRepo struct {
	db *gorm.DB
}

func NewAuthorityRepo(db *gorm.DB) *AuthorityRepo {
	return &AuthorityRepo{db}
}

// FindAll returns all authorities ordered by name
func (r *AuthorityRepo) FindAll(ctx context.Context) ([]models.Authority, error) {
	var authorities []models.Authority
	if err := r.db.WithContext(ctx).Order("name").Find(&authorities).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "authorities", err)
	}
	return authorities, nil
}

func (r *AuthorityRepo) FindAllNames(ctx context.Context) ([]string, error) {
	authorities, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return models.AuthorityNames(authorities), nil
}

// Save inserts an authority unless one with the same name exists
func (r *AuthorityRepo) Save(ctx context.Context, authority *models.Authority) error {
	if err := authority.Validate(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(authority).Error
	if err != nil {
		return errs.NewDatabaseError("save", "authority", err)
	}
	return nil
}
