package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"yatube/api/middleware"
	"yatube/config"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

// groupIDFromForm разбирает выбранную в форме группу, пустое значение -
// пост без группы
func groupIDFromForm(c *gin.Context) (*int64, bool) {
	raw := c.PostForm("group")
	if raw == "" {
		return nil, true
	}
	groupID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	if _, err := groupService.Get(c.Request.Context(), groupID); err != nil {
		return nil, false
	}
	return &groupID, true
}

// saveImage сохраняет загруженную картинку в каталог медиа и возвращает
// относительный путь для поста
func saveImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// Картинка опциональна
		return "", nil
	}
	mediaDir := "media"
	if config.AppConfig != nil {
		mediaDir = config.AppConfig.Media.Dir
	}
	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	relPath := filepath.Join("posts", filename)
	if err := c.SaveUploadedFile(file, filepath.Join(mediaDir, relPath)); err != nil {
		return "", err
	}
	return relPath, nil
}

// PostCreateForm - форма нового поста
func PostCreateForm(c *gin.Context) {
	groups, _ := groupService.List(c.Request.Context())
	c.HTML(http.StatusOK, "post_create.html", htmlContext(c, gin.H{
		"title":   "Новый пост",
		"groups":  groups,
		"is_edit": false,
	}))
}

// PostCreate сохраняет новый пост и уводит на профиль автора
func PostCreate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/")
		return
	}

	renderError := func(errMsg string) {
		groups, _ := groupService.List(c.Request.Context())
		c.HTML(http.StatusOK, "post_create.html", htmlContext(c, gin.H{
			"title":   "Новый пост",
			"groups":  groups,
			"is_edit": false,
			"error":   errMsg,
			"text":    c.PostForm("text"),
		}))
	}

	text := c.PostForm("text")
	if text == "" {
		renderError("Введите текст поста")
		return
	}
	groupID, ok := groupIDFromForm(c)
	if !ok {
		renderError("Выберите существующую группу")
		return
	}
	image, err := saveImage(c)
	if err != nil {
		renderError("Не удалось сохранить картинку")
		return
	}

	if _, err := postService.Create(c.Request.Context(), userID, text, groupID, image); err != nil {
		renderError("Не удалось сохранить пост")
		return
	}
	middleware.RecordPostCreated()

	username, _ := c.Get("username")
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}

// PostEditForm - форма редактирования. Не-автора молча уводим на страницу
// поста, без сообщения об ошибке.
func PostEditForm(c *gin.Context) {
	userID, _ := currentUserID(c)
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c)
		return
	}

	post, err := postService.Get(c.Request.Context(), postID)
	if err != nil {
		NotFound(c)
		return
	}

	if post.AuthorID != userID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", postID))
		return
	}

	groups, _ := groupService.List(c.Request.Context())
	c.HTML(http.StatusOK, "post_create.html", htmlContext(c, gin.H{
		"title":   "Редактировать пост",
		"groups":  groups,
		"is_edit": true,
		"post":    post,
		"text":    post.Text,
	}))
}

// PostEdit применяет правки автора. Не-автора молча уводим на страницу поста.
func PostEdit(c *gin.Context) {
	userID, _ := currentUserID(c)
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c)
		return
	}

	post, err := postService.Get(c.Request.Context(), postID)
	if err != nil {
		NotFound(c)
		return
	}

	detailURL := fmt.Sprintf("/posts/%d/", postID)
	if post.AuthorID != userID {
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	text := c.PostForm("text")
	groupID, okGroup := groupIDFromForm(c)
	image, imgErr := saveImage(c)
	if text == "" || !okGroup || imgErr != nil {
		groups, _ := groupService.List(c.Request.Context())
		c.HTML(http.StatusOK, "post_create.html", htmlContext(c, gin.H{
			"title":   "Редактировать пост",
			"groups":  groups,
			"is_edit": true,
			"post":    post,
			"text":    text,
			"error":   "Проверьте форму",
		}))
		return
	}

	if _, err := postService.Update(c.Request.Context(), userID, postID, text, groupID, image); err != nil {
		c.Redirect(http.StatusFound, detailURL)
		return
	}
	c.Redirect(http.StatusFound, detailURL)
}

// AddComment сохраняет комментарий и возвращает на страницу поста
func AddComment(c *gin.Context) {
	userID, _ := currentUserID(c)
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

	text := c.PostForm("text")
	if _, err := commentService.Add(c.Request.Context(), postID, userID, text); err != nil {
		// Невалидная форма - показываем ее заново с ошибкой
		c.HTML(http.StatusOK, "comments.html", htmlContext(c, gin.H{
			"title": "Комментарий",
			"post":  post,
			"text":  text,
			"error": "Комментарий должен быть не пустым и не длиннее 200 символов",
		}))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", postID))
}

// FollowIndex - лента постов авторов, на которых подписан пользователь
func FollowIndex(c *gin.Context) {
	userID, _ := currentUserID(c)
	page, err := postService.FeedFor(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"title": "Ошибка сервера", "is_auth": false})
		return
	}
	c.HTML(http.StatusOK, "follow.html", htmlContext(c, gin.H{
		"title":    "Избранные авторы",
		"page_obj": page,
	}))
}

// ProfileFollow подписывает на автора и возвращает на его профиль
func ProfileFollow(c *gin.Context) {
	userID, _ := currentUserID(c)
	username := c.Param("username")

	author, err := userService.UserByUsername(c.Request.Context(), username)
	if err != nil {
		NotFound(c)
		return
	}

	// Подписка на себя и повторная подписка просто игнорируются
	_, _ = followService.Follow(c.Request.Context(), userID, author.ID)
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}

// ProfileUnfollow снимает подписку и возвращает на профиль автора
func ProfileUnfollow(c *gin.Context) {
	userID, _ := currentUserID(c)
	username := c.Param("username")

	author, err := userService.UserByUsername(c.Request.Context(), username)
	if err != nil {
		NotFound(c)
		return
	}

	if err := followService.Unfollow(c.Request.Context(), userID, author.ID); err != nil &&
		err != services.ErrSelfFollow {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"title": "Ошибка сервера", "is_auth": false})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", username))
}
