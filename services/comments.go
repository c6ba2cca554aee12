package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/db"
	"yatube/models"
)

// Лимит длины комментария, как в форме
const CommentMaxLen = 200

var ErrCommentInvalid = errors.New("comment text is empty or too long")

type CommentService struct{}

func NewCommentService() *CommentService {
	return &CommentService{}
}

// Add сохраняет комментарий к посту. Автор комментария - текущий
// пользователь, пост берется из URL, а не из формы.
func (cs *CommentService) Add(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	if text == "" || len([]rune(text)) > CommentMaxLen {
		return nil, ErrCommentInvalid
	}

	// Пост должен существовать
	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		Created:  time.Now(),
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := db.GetWriteDB(ctx).Omit("Author", "Post").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ForPost возвращает комментарии поста по порядку создания
func (cs *CommentService) ForPost(ctx context.Context, postID int64) ([]models.CommentView, error) {
	var comments []models.Comment
	err := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, models.CommentView{
			ID:         comments[i].ID,
			Text:       comments[i].Text,
			Created:    comments[i].Created,
			AuthorID:   comments[i].AuthorID,
			AuthorName: comments[i].Author.Username,
			PostID:     comments[i].PostID,
		})
	}
	return views, nil
}

// Get возвращает комментарий поста по ID
func (cs *CommentService) Get(ctx context.Context, postID, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := db.GetReadOnlyDB(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update меняет текст комментария. Не-автор получает ErrNotAuthor.
func (cs *CommentService) Update(ctx context.Context, userID, postID, commentID int64, text string) (*models.Comment, error) {
	var comment models.Comment
	err := db.GetWriteDB(ctx).Where("post_id = ?", postID).First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	if text == "" || len([]rune(text)) > CommentMaxLen {
		return nil, ErrCommentInvalid
	}
	comment.Text = text
	if err := db.GetWriteDB(ctx).Omit("Author", "Post").Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete удаляет комментарий. Не-автор получает ErrNotAuthor.
func (cs *CommentService) Delete(ctx context.Context, userID, postID, commentID int64) error {
	var comment models.Comment
	err := db.GetWriteDB(ctx).Where("post_id = ?", postID).First(&comment, commentID).Error
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return ErrNotAuthor
	}
	return db.GetWriteDB(ctx).Delete(&comment).Error
}
