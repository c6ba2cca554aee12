package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Index - главная страница, все посты, новые сверху
func Index(c *gin.Context) {
	page, err := postService.Index(c.Request.Context(), pageParam(c))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"title": "Ошибка сервера", "is_auth": false})
		return
	}
	c.HTML(http.StatusOK, "index.html", htmlContext(c, gin.H{
		"title":    "Главная страница",
		"page_obj": page,
	}))
}

// GroupPosts - посты одной группы
func GroupPosts(c *gin.Context) {
	group, err := groupService.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		NotFound(c)
		return
	}

	page, err := postService.ByGroup(c.Request.Context(), group.ID, pageParam(c))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"title": "Ошибка сервера", "is_auth": false})
		return
	}
	c.HTML(http.StatusOK, "group.html", htmlContext(c, gin.H{
		"title":    "Посты группы " + group.Title,
		"group":    group,
		"page_obj": page,
	}))
}

// Profile - страница автора с его постами и состоянием подписки
func Profile(c *gin.Context) {
	author, err := userService.UserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		NotFound(c)
		return
	}

	page, err := postService.ByAuthor(c.Request.Context(), author.ID, pageParam(c))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"title": "Ошибка сервера", "is_auth": false})
		return
	}

	following := false
	if userID, ok := currentUserID(c); ok {
		following, _ = followService.IsFollowing(c.Request.Context(), userID, author.ID)
	}
	followers, _ := followService.CountFollowers(c.Request.Context(), author.ID)

	c.HTML(http.StatusOK, "profile.html", htmlContext(c, gin.H{
		"title":     "Профайл пользователя " + author.Username,
		"author":    author,
		"page_obj":  page,
		"count":     page.TotalCount,
		"following": following,
		"followers": followers,
	}))
}

// PostDetail - страница поста с комментариями и формой комментария
func PostDetail(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c)
		return
	}

	post, err := postService.GetView(c.Request.Context(), postID)
	if err != nil {
		NotFound(c)
		return
	}

	comments, err := commentService.ForPost(c.Request.Context(), postID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"title": "Ошибка сервера", "is_auth": false})
		return
	}

	countPosts, _ := postService.CountByAuthor(c.Request.Context(), post.AuthorID)

	title := post.Text
	if runes := []rune(title); len(runes) > 30 {
		title = string(runes[:30])
	}

	c.HTML(http.StatusOK, "post_detail.html", htmlContext(c, gin.H{
		"title":       title,
		"post":        post,
		"comments":    comments,
		"count_posts": countPosts,
	}))
}

// AboutAuthor - статическая страница об авторе
func AboutAuthor(c *gin.Context) {
	c.HTML(http.StatusOK, "about_author.html", htmlContext(c, gin.H{
		"title": "Об авторе",
	}))
}

// AboutTech - статическая страница о технологиях
func AboutTech(c *gin.Context) {
	c.HTML(http.StatusOK, "about_tech.html", htmlContext(c, gin.H{
		"title": "Технологии",
	}))
}

// NotFound - кастомная страница 404
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", htmlContext(c, gin.H{
		"title": "Страница не найдена",
		"path":  c.Request.URL.Path,
	}))
	c.Abort()
}
