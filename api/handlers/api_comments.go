package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"yatube/services"

	"github.com/gin-gonic/gin"
)

type apiCommentRequest struct {
	Text string `json:"text" binding:"required"`
	// Поля author и post игнорируются: автор - текущий пользователь,
	// пост берется из URL
	Author string `json:"author"`
	PostID int64  `json:"post_id"`
}

func postIDParam(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return 0, false
	}
	return postID, true
}

// APICommentList - комментарии поста
func APICommentList(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	if _, err := postService.Get(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comments, err := commentService.ForPost(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// APICommentCreate создает комментарий к посту из URL, автор - текущий
// пользователь
func APICommentCreate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var req apiCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := commentService.Add(c.Request.Context(), postID, userID, req.Text)
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if errors.Is(err, services.ErrCommentInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is empty or too long"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// APICommentRetrieve возвращает один комментарий поста
func APICommentRetrieve(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	comment, err := commentService.Get(c.Request.Context(), postID, commentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// APICommentUpdate меняет комментарий, разрешено только автору
func APICommentUpdate(c *gin.Context) {
	userID, _ := currentUserID(c)
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var req apiCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := commentService.Update(c.Request.Context(), userID, postID, commentID, req.Text)
	if errors.Is(err, services.ErrNotAuthor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can modify this comment"})
		return
	}
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// APICommentDelete удаляет комментарий, разрешено только автору
func APICommentDelete(c *gin.Context) {
	userID, _ := currentUserID(c)
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	err = commentService.Delete(c.Request.Context(), userID, postID, commentID)
	if errors.Is(err, services.ErrNotAuthor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete this comment"})
		return
	}
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
