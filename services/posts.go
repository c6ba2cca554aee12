package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/db"
	"yatube/models"

	"gorm.io/gorm"
)

// Постов на страницу, как в исходной верстке
const PostsPerPage = 10

var ErrNotAuthor = errors.New("user is not the author")

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

func toPostView(post *models.Post) models.PostView {
	view := models.PostView{
		ID:         post.ID,
		Text:       post.Text,
		PubDate:    post.PubDate,
		AuthorID:   post.AuthorID,
		AuthorName: post.Author.Username,
		Image:      post.Image,
	}
	if post.Group != nil {
		view.GroupSlug = post.Group.Slug
		view.GroupTitle = post.Group.Title
	}
	return view
}

// paginate режет выборку на страницы по PostsPerPage. Номер страницы
// за пределами диапазона прижимается к ближайшей существующей странице.
func (ps *PostService) paginate(ctx context.Context, query *gorm.DB, page int) (*models.PostPage, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	numPages := int((total + PostsPerPage - 1) / PostsPerPage)
	if numPages < 1 {
		numPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}

	var posts []models.Post
	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC, id DESC").
		Offset((page - 1) * PostsPerPage).
		Limit(PostsPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, toPostView(&posts[i]))
	}

	return &models.PostPage{
		Posts:      views,
		Page:       page,
		NumPages:   numPages,
		TotalCount: total,
	}, nil
}

// Index возвращает страницу всех постов, новые сверху
func (ps *PostService) Index(ctx context.Context, page int) (*models.PostPage, error) {
	query := db.GetReadOnlyDB(ctx).Model(&models.Post{})
	return ps.paginate(ctx, query, page)
}

// ByGroup возвращает страницу постов группы
func (ps *PostService) ByGroup(ctx context.Context, groupID int64, page int) (*models.PostPage, error) {
	query := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Where("group_id = ?", groupID)
	return ps.paginate(ctx, query, page)
}

// ByAuthor возвращает страницу постов автора
func (ps *PostService) ByAuthor(ctx context.Context, authorID int64, page int) (*models.PostPage, error) {
	query := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Where("author_id = ?", authorID)
	return ps.paginate(ctx, query, page)
}

// FeedFor возвращает страницу постов авторов, на которых подписан пользователь
func (ps *PostService) FeedFor(ctx context.Context, userID int64, page int) (*models.PostPage, error) {
	authorIDs := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Select("author_id")
	query := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Where("author_id IN (?)", authorIDs)
	return ps.paginate(ctx, query, page)
}

// Slice возвращает срез всех постов для API с limit/offset пагинацией
func (ps *PostService) Slice(ctx context.Context, limit, offset int) ([]models.PostView, int64, error) {
	var total int64
	if err := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.Post
	err := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %w", err)
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, toPostView(&posts[i]))
	}
	return views, total, nil
}

// CountByAuthor возвращает количество постов автора для страницы профиля
func (ps *PostService) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// Get возвращает пост по ID
func (ps *PostService) Get(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	err := db.GetReadOnlyDB(ctx).Preload("Author").Preload("Group").First(&post, postID).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetView возвращает пост по ID вместе с данными автора и группы
func (ps *PostService) GetView(ctx context.Context, postID int64) (*models.PostView, error) {
	post, err := ps.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	view := toPostView(post)
	return &view, nil
}

// Create сохраняет новый пост. Автором всегда становится переданный
// пользователь, что бы ни пришло в форме.
func (ps *PostService) Create(ctx context.Context, authorID int64, text string, groupID *int64, image string) (*models.Post, error) {
	if text == "" {
		return nil, errors.New("post text is required")
	}

	post := &models.Post{
		Text:     text,
		PubDate:  time.Now(),
		AuthorID: authorID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := db.GetWriteDB(ctx).Omit("Author", "Group").Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// Рассылаем событие подписчикам автора, пост уже сохранен,
	// поэтому ошибки доставки никого не блокируют
	go ps.notifyFollowers(context.Background(), post)

	return post, nil
}

// Update меняет текст, группу и картинку поста. Не-автор получает ErrNotAuthor.
func (ps *PostService) Update(ctx context.Context, userID, postID int64, text string, groupID *int64, image string) (*models.Post, error) {
	var post models.Post
	if err := db.GetWriteDB(ctx).First(&post, postID).Error; err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	if text == "" {
		return nil, errors.New("post text is required")
	}

	post.Text = text
	post.GroupID = groupID
	if image != "" {
		post.Image = image
	}
	if err := db.GetWriteDB(ctx).Omit("Author", "Group").Save(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &post, nil
}

// Delete удаляет пост автора. Не-автор получает ErrNotAuthor.
func (ps *PostService) Delete(ctx context.Context, userID, postID int64) error {
	var post models.Post
	if err := db.GetWriteDB(ctx).First(&post, postID).Error; err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotAuthor
	}
	// Комментарии удаляются вместе с постом
	if err := db.GetWriteDB(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return db.GetWriteDB(ctx).Delete(&post).Error
}

// notifyFollowers публикует событие о новом посте для каждого подписчика.
// Если RabbitMQ недоступен, пушим напрямую через WebSocket.
func (ps *PostService) notifyFollowers(ctx context.Context, post *models.Post) {
	var author models.User
	if err := db.GetReadOnlyDB(ctx).First(&author, post.AuthorID).Error; err != nil {
		return
	}

	var followerIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", post.AuthorID).
		Pluck("user_id", &followerIDs).Error
	if err != nil {
		return
	}

	for _, followerID := range followerIDs {
		event := FeedEvent{
			UserID:   followerID,
			PostID:   post.ID,
			AuthorID: post.AuthorID,
			Author:   author.Username,
			Text:     post.Text,
			PubDate:  post.PubDate,
		}
		if err := PublishFeedEvent(ctx, event); err != nil {
			sendFeedEventWS(event)
		}
	}
}
