package handlers

import (
	"errors"
	"net/http"

	"yatube/services"

	"github.com/gin-gonic/gin"
)

type apiFollowRequest struct {
	// Ник автора, на которого подписываемся. Подписчик - всегда
	// текущий пользователь.
	Following string `json:"following" binding:"required"`
}

// APIFollowList - подписки текущего пользователя, параметр search
// фильтрует по подстроке ника автора
func APIFollowList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	follows, err := followService.ListFor(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch follows"})
		return
	}
	c.JSON(http.StatusOK, follows)
}

// APIFollowCreate подписывает текущего пользователя на автора
func APIFollowCreate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req apiFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	author, err := userService.UserByUsername(c.Request.Context(), req.Following)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	follow, err := followService.Follow(c.Request.Context(), userID, author.ID)
	if errors.Is(err, services.ErrSelfFollow) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}
	if errors.Is(err, services.ErrAlreadyFollowing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already following this author"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create follow"})
		return
	}
	c.JSON(http.StatusCreated, follow)
}
