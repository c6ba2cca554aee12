package services

import (
	"context"
	"fmt"
	"testing"

	"yatube/db"
	"yatube/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	if db.ORM == nil {
		require.NoError(t, db.ConnectTestDB())
	}
}

func newTestUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Username:  fmt.Sprintf("%s_%s", gofakeit.Username(), gofakeit.DigitN(6)),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  "x",
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func newTestPost(t *testing.T, authorID int64, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: authorID}
	require.NoError(t, db.ORM.Omit("Author", "Group").Create(post).Error)
	return post
}

func TestPaginateClampsPageNumber(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ps := NewPostService()
	author := newTestUser(t)

	for i := 0; i < 25; i++ {
		newTestPost(t, author.ID, fmt.Sprintf("пост %d", i+1))
	}

	page, err := ps.ByAuthor(ctx, author.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, PostsPerPage)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 3, page.NumPages)
	require.EqualValues(t, 25, page.TotalCount)
	require.True(t, page.HasNext())
	require.False(t, page.HasPrev())

	// Номер за пределами диапазона прижимается к последней странице
	page, err = ps.ByAuthor(ctx, author.ID, 99)
	require.NoError(t, err)
	require.Equal(t, 3, page.Page)
	require.Len(t, page.Posts, 5)
	require.False(t, page.HasNext())

	// Нулевая и отрицательная страницы трактуются как первая
	page, err = ps.ByAuthor(ctx, author.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)

	page, err = ps.ByAuthor(ctx, author.ID, -5)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
}

func TestPaginateEmptyAuthor(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ps := NewPostService()
	author := newTestUser(t)

	page, err := ps.ByAuthor(ctx, author.ID, 7)
	require.NoError(t, err)
	require.Empty(t, page.Posts)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.NumPages)
}

func TestFeedForReturnsOnlyFollowedAuthors(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ps := NewPostService()
	fs := NewFollowService()

	reader := newTestUser(t)
	followed := newTestUser(t)
	other := newTestUser(t)

	followedPost := newTestPost(t, followed.ID, "пост избранного автора")
	newTestPost(t, other.ID, "пост постороннего")

	_, err := fs.Follow(ctx, reader.ID, followed.ID)
	require.NoError(t, err)

	page, err := ps.FeedFor(ctx, reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	require.Equal(t, followedPost.ID, page.Posts[0].ID)
	require.Equal(t, followed.Username, page.Posts[0].AuthorName)
}

func TestPostUpdateOnlyByAuthor(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ps := NewPostService()

	author := newTestUser(t)
	stranger := newTestUser(t)
	post := newTestPost(t, author.ID, "исходный текст")

	_, err := ps.Update(ctx, stranger.ID, post.ID, "подмена", nil, "")
	require.ErrorIs(t, err, ErrNotAuthor)

	var stored models.Post
	require.NoError(t, db.ORM.First(&stored, post.ID).Error)
	require.Equal(t, "исходный текст", stored.Text)

	updated, err := ps.Update(ctx, author.ID, post.ID, "правка автора", nil, "")
	require.NoError(t, err)
	require.Equal(t, "правка автора", updated.Text)
}

func TestPostDeleteRemovesComments(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ps := NewPostService()
	cs := NewCommentService()

	author := newTestUser(t)
	commenter := newTestUser(t)
	post := newTestPost(t, author.ID, "пост с комментариями")

	_, err := cs.Add(ctx, post.ID, commenter.ID, "первый")
	require.NoError(t, err)

	require.ErrorIs(t, ps.Delete(ctx, commenter.ID, post.ID), ErrNotAuthor)
	require.NoError(t, ps.Delete(ctx, author.ID, post.ID))

	var count int64
	require.NoError(t, db.ORM.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCommentValidation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewCommentService()

	author := newTestUser(t)
	post := newTestPost(t, author.ID, "пост")

	_, err := cs.Add(ctx, post.ID, author.ID, "")
	require.ErrorIs(t, err, ErrCommentInvalid)

	long := make([]rune, CommentMaxLen+1)
	for i := range long {
		long[i] = 'я'
	}
	_, err = cs.Add(ctx, post.ID, author.ID, string(long))
	require.ErrorIs(t, err, ErrCommentInvalid)

	// Ровно 200 символов проходит
	_, err = cs.Add(ctx, post.ID, author.ID, string(long[:CommentMaxLen]))
	require.NoError(t, err)

	// Комментарий к несуществующему посту
	_, err = cs.Add(ctx, 999999, author.ID, "куда")
	require.True(t, IsNotFound(err))
}
