package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"yatube/api/middleware"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

// limitOffsetParams - пагинация API в стиле limit/offset
func limitOffsetParams(c *gin.Context) (limit, offset int) {
	limit = 10
	offset = 0
	if parsed, err := strconv.Atoi(c.Query("limit")); err == nil && parsed > 0 && parsed <= 100 {
		limit = parsed
	}
	if parsed, err := strconv.Atoi(c.Query("offset")); err == nil && parsed >= 0 {
		offset = parsed
	}
	return limit, offset
}

type apiPostRequest struct {
	Text    string `json:"text" binding:"required"`
	GroupID *int64 `json:"group_id"`
	// Поле author игнорируется: автором всегда становится
	// авторизованный пользователь
	Author string `json:"author"`
}

// APIPostList - список постов с limit/offset пагинацией
func APIPostList(c *gin.Context) {
	limit, offset := limitOffsetParams(c)

	posts, total, err := postService.Slice(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": posts,
	})
}

// APIPostCreate создает пост, автор - текущий пользователь
func APIPostCreate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req apiPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.GroupID != nil {
		if _, err := groupService.Get(c.Request.Context(), *req.GroupID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Group not found"})
			return
		}
	}

	post, err := postService.Create(c.Request.Context(), userID, req.Text, req.GroupID, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	middleware.RecordPostCreated()
	c.JSON(http.StatusCreated, post)
}

// APIPostRetrieve возвращает один пост
func APIPostRetrieve(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}
	post, err := postService.GetView(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// APIPostUpdate меняет пост, разрешено только автору
func APIPostUpdate(c *gin.Context) {
	userID, _ := currentUserID(c)
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req apiPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	post, err := postService.Update(c.Request.Context(), userID, postID, req.Text, req.GroupID, "")
	if errors.Is(err, services.ErrNotAuthor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can modify this post"})
		return
	}
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// APIPostDelete удаляет пост, разрешено только автору
func APIPostDelete(c *gin.Context) {
	userID, _ := currentUserID(c)
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	err = postService.Delete(c.Request.Context(), userID, postID)
	if errors.Is(err, services.ErrNotAuthor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete this post"})
		return
	}
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
