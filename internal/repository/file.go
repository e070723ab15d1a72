package repository

import (
	"context"

	"gorm.io/gorm"

	"learnplay-commerce/internal/model"
)

type FileRepository interface {
	FindByID(ctx context.Context, fileID string) (*model.FileAsset, error)
}

type fileRepoImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepoImpl{
		db: db,
	}
}

func (r *fileRepoImpl) FindByID(ctx context.Context, fileID string) (*model.FileAsset, error) {
	var file model.FileAsset
	err := r.db.WithContext(ctx).
		Where("id = ?", fileID).
		First(&file).Error

	if err != nil {
		return nil, err
	}

	return &file, nil
}
