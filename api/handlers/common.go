package handlers

import (
	"strconv"

	"yatube/services"

	"github.com/gin-gonic/gin"
)

var (
	userService    = services.NewUserService()
	postService    = services.NewPostService()
	commentService = services.NewCommentService()
	groupService   = services.NewGroupService()
	followService  = services.NewFollowService()
)

// currentUserID возвращает ID пользователя, положенный auth middleware
func currentUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(int64), true
}

// pageParam достает номер страницы из query. Мусор в параметре
// трактуем как первую страницу.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// htmlContext добавляет к контексту шаблона данные текущего пользователя
func htmlContext(c *gin.Context, ctx gin.H) gin.H {
	if username, exists := c.Get("username"); exists {
		ctx["username"] = username
		ctx["is_auth"] = true
	} else {
		ctx["is_auth"] = false
	}
	return ctx
}
