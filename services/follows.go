package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yatube/db"
	"yatube/models"

	"gorm.io/gorm"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this author")
)

type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow подписывает пользователя на автора. Подписка на себя запрещена,
// повторная подписка упирается в уникальный индекс (user_id, author_id),
// так что дубликат не появится и при конкурентных запросах.
func (fs *FollowService) Follow(ctx context.Context, userID, authorID int64) (*models.Follow, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := db.GetReadOnlyDB(ctx).First(&author, authorID).Error; err != nil {
		return nil, err
	}

	var existing int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyFollowing
	}

	follow := &models.Follow{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	if err := db.GetWriteDB(ctx).Omit("User", "Author").Create(follow).Error; err != nil {
		// Конкурентный запрос успел раньше - индекс не пропустил дубликат
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, ErrAlreadyFollowing
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	// Уведомляем автора о новом подписчике
	var follower models.User
	if err := db.GetReadOnlyDB(ctx).First(&follower, userID).Error; err == nil {
		_ = SendWsNotify(authorID, "info", fmt.Sprintf("%s подписался на вас", follower.Username))
	}

	return follow, nil
}

// Unfollow удаляет подписку пользователя на автора
func (fs *FollowService) Unfollow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrSelfFollow
	}
	return db.GetWriteDB(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing проверяет, подписан ли пользователь на автора
func (fs *FollowService) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// CountFollowers возвращает количество подписчиков автора
func (fs *FollowService) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// ListFor возвращает подписки пользователя, опционально отфильтрованные
// по подстроке ника автора
func (fs *FollowService) ListFor(ctx context.Context, userID int64, search string) ([]models.FollowView, error) {
	var follows []models.Follow
	query := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Where("user_id = ?", userID)
	if search != "" {
		authorIDs := db.GetReadOnlyDB(ctx).
			Model(&models.User{}).
			Where("username LIKE ?", "%"+search+"%").
			Select("id")
		query = query.Where("author_id IN (?)", authorIDs)
	}
	if err := query.Order("id ASC").Find(&follows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch follows: %w", err)
	}

	views := make([]models.FollowView, 0, len(follows))
	for i := range follows {
		views = append(views, models.FollowView{
			ID:         follows[i].ID,
			UserID:     follows[i].UserID,
			AuthorID:   follows[i].AuthorID,
			AuthorName: follows[i].Author.Username,
		})
	}
	return views, nil
}

// IsNotFound сообщает хендлерам, что записи в БД нет
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
