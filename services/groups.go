package services

import (
	"context"
	"fmt"

	"yatube/db"
	"yatube/models"
)

type GroupService struct{}

func NewGroupService() *GroupService {
	return &GroupService{}
}

// List возвращает все группы
func (gs *GroupService) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := db.GetReadOnlyDB(ctx).Order("id ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	return groups, nil
}

// BySlug находит группу по слагу
func (gs *GroupService) BySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := db.GetReadOnlyDB(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Get находит группу по ID
func (gs *GroupService) Get(ctx context.Context, groupID int64) (*models.Group, error) {
	var group models.Group
	if err := db.GetReadOnlyDB(ctx).First(&group, groupID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}
