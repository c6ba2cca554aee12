package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"yatube/api/routes"
	"yatube/db"
	"yatube/models"
	"yatube/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	if db.ORM == nil {
		require.NoError(t, db.ConnectTestDB())
	}
	if services.PageCache == nil {
		services.InitPageCache()
	}
	services.PageCache.Clear(context.Background())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.LoadHTMLGlob("../../templates/*.html")

	routes.Web(r)
	routes.PublicApi(r)
	return r
}

// createTestUser регистрирует пользователя и возвращает его вместе с токеном
func createTestUser(t *testing.T) (*models.User, string) {
	t.Helper()

	username := fmt.Sprintf("%s_%s", gofakeit.Username(), gofakeit.DigitN(6))
	password := "testpassword"

	user, err := services.NewUserService().Register(
		context.Background(), username, gofakeit.FirstName(), gofakeit.LastName(), password)
	require.NoError(t, err)

	token, _, err := services.NewUserService().Login(context.Background(), username, password)
	require.NoError(t, err)

	return user, token
}

func createTestGroup(t *testing.T) *models.Group {
	t.Helper()

	group := &models.Group{
		Title:       gofakeit.BookTitle(),
		Slug:        fmt.Sprintf("slug-%s", gofakeit.DigitN(8)),
		Description: gofakeit.Sentence(5),
	}
	require.NoError(t, db.ORM.Create(group).Error)
	return group
}

func createTestPost(t *testing.T, authorID int64, groupID *int64, text string) *models.Post {
	t.Helper()

	post := &models.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
	}
	require.NoError(t, db.ORM.Omit("Author", "Group").Create(post).Error)
	return post
}

func getPage(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, router *gin.Engine, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostCreateRedirectsToProfile(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t)

	w := postForm(t, router, "/create/", token, url.Values{
		"text": {"Новый тестовый пост"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, fmt.Sprintf("/profile/%s/", user.Username), w.Header().Get("Location"))

	var post models.Post
	err := db.ORM.Where("text = ?", "Новый тестовый пост").Order("id DESC").First(&post).Error
	require.NoError(t, err)
	require.Equal(t, user.ID, post.AuthorID)
}

func TestPostEditByNonAuthorIsSilentNoop(t *testing.T) {
	router := setupRouter(t)
	author, _ := createTestUser(t)
	_, strangerToken := createTestUser(t)

	post := createTestPost(t, author.ID, nil, "Исходный текст")

	w := postForm(t, router, fmt.Sprintf("/posts/%d/edit/", post.ID), strangerToken, url.Values{
		"text": {"Взломанный текст"},
	})

	// Не-автора молча уводит на страницу поста, без ошибки
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), w.Header().Get("Location"))

	var stored models.Post
	require.NoError(t, db.ORM.First(&stored, post.ID).Error)
	require.Equal(t, "Исходный текст", stored.Text)
}

func TestPostEditByAuthor(t *testing.T) {
	router := setupRouter(t)
	author, token := createTestUser(t)

	post := createTestPost(t, author.ID, nil, "Черновик")

	w := postForm(t, router, fmt.Sprintf("/posts/%d/edit/", post.ID), token, url.Values{
		"text": {"Исправленный текст"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), w.Header().Get("Location"))

	var stored models.Post
	require.NoError(t, db.ORM.First(&stored, post.ID).Error)
	require.Equal(t, "Исправленный текст", stored.Text)
}

func TestLoginRequiredRedirects(t *testing.T) {
	router := setupRouter(t)
	author, _ := createTestUser(t)
	post := createTestPost(t, author.ID, nil, "Пост")

	paths := []string{
		"/create/",
		fmt.Sprintf("/posts/%d/edit/", post.ID),
		"/follow/",
		fmt.Sprintf("/profile/%s/follow/", author.Username),
		fmt.Sprintf("/profile/%s/unfollow/", author.Username),
	}

	for _, path := range paths {
		w := getPage(t, router, path, "")
		require.Equal(t, http.StatusFound, w.Code, path)
		location := w.Header().Get("Location")
		require.True(t, strings.HasPrefix(location, "/auth/login/?next="), location)
		require.Contains(t, location, url.QueryEscape(path))
	}

	// Добавление комментария тоже только для вошедших
	w := postForm(t, router, fmt.Sprintf("/posts/%d/comment/", post.ID), "", url.Values{"text": {"хм"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login/?next="))
}

func countArticles(body string) int {
	return strings.Count(body, "<article>")
}

func TestPagination(t *testing.T) {
	router := setupRouter(t)
	author, _ := createTestUser(t)
	group := createTestGroup(t)

	for i := 0; i < 13; i++ {
		createTestPost(t, author.ID, &group.ID, fmt.Sprintf("Пост номер %d", i+1))
	}

	pages := map[string]int{
		fmt.Sprintf("/group/%s/?page=1", group.Slug):          10,
		fmt.Sprintf("/group/%s/?page=2", group.Slug):          3,
		fmt.Sprintf("/profile/%s/?page=1", author.Username):   10,
		fmt.Sprintf("/profile/%s/?page=2", author.Username):   3,
		fmt.Sprintf("/profile/%s/?page=99", author.Username):  3, // прижимается к последней
		fmt.Sprintf("/profile/%s/?page=abc", author.Username): 10,
	}
	for path, want := range pages {
		w := getPage(t, router, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Equal(t, want, countArticles(w.Body.String()), path)
	}

	// На главной постов не меньше: первая страница всегда полная
	w := getPage(t, router, "/?page=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 10, countArticles(w.Body.String()))
}

func TestIndexPageCache(t *testing.T) {
	router := setupRouter(t)
	author, _ := createTestUser(t)
	createTestPost(t, author.ID, nil, "Пост до кеша")

	first := getPage(t, router, "/", "")
	require.Equal(t, http.StatusOK, first.Code)

	// Новый пост не попадает в закешированную страницу
	createTestPost(t, author.ID, nil, "Пост после кеша")

	second := getPage(t, router, "/", "")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, first.Body.String(), second.Body.String())
	require.NotContains(t, second.Body.String(), "Пост после кеша")

	// После сброса кеша страница обновляется
	services.PageCache.Clear(context.Background())

	third := getPage(t, router, "/", "")
	require.Equal(t, http.StatusOK, third.Code)
	require.NotEqual(t, first.Body.String(), third.Body.String())
	require.Contains(t, third.Body.String(), "Пост после кеша")
}

func TestFollowAndUnfollow(t *testing.T) {
	router := setupRouter(t)
	follower, token := createTestUser(t)
	author, _ := createTestUser(t)

	countFollows := func() int64 {
		var count int64
		require.NoError(t, db.ORM.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", follower.ID, author.ID).
			Count(&count).Error)
		return count
	}

	profileURL := fmt.Sprintf("/profile/%s/", author.Username)

	w := getPage(t, router, profileURL+"follow/", token)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, profileURL, w.Header().Get("Location"))
	require.EqualValues(t, 1, countFollows())

	// Повторная подписка не создает дубликат
	w = getPage(t, router, profileURL+"follow/", token)
	require.Equal(t, http.StatusFound, w.Code)
	require.EqualValues(t, 1, countFollows())

	w = getPage(t, router, profileURL+"unfollow/", token)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, profileURL, w.Header().Get("Location"))
	require.EqualValues(t, 0, countFollows())
}

func TestCannotFollowSelf(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t)

	w := getPage(t, router, fmt.Sprintf("/profile/%s/follow/", user.Username), token)
	require.Equal(t, http.StatusFound, w.Code)

	var count int64
	require.NoError(t, db.ORM.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", user.ID, user.ID).
		Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestFollowIndexShowsOnlyFollowedAuthors(t *testing.T) {
	router := setupRouter(t)
	follower, token := createTestUser(t)
	followed, _ := createTestUser(t)
	other, _ := createTestUser(t)

	createTestPost(t, followed.ID, nil, "Пост избранного автора")
	createTestPost(t, other.ID, nil, "Пост постороннего автора")

	require.NoError(t, db.ORM.Omit("User", "Author").Create(&models.Follow{
		UserID:   follower.ID,
		AuthorID: followed.ID,
	}).Error)

	w := getPage(t, router, "/follow/", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Пост избранного автора")
	require.NotContains(t, w.Body.String(), "Пост постороннего автора")
}

func TestAddComment(t *testing.T) {
	router := setupRouter(t)
	author, _ := createTestUser(t)
	commenter, token := createTestUser(t)
	post := createTestPost(t, author.ID, nil, "Пост с комментариями")

	w := postForm(t, router, fmt.Sprintf("/posts/%d/comment/", post.ID), token, url.Values{
		"text": {"Отличный пост"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), w.Header().Get("Location"))

	var comment models.Comment
	require.NoError(t, db.ORM.Where("post_id = ?", post.ID).First(&comment).Error)
	require.Equal(t, commenter.ID, comment.AuthorID)

	// Слишком длинный комментарий не сохраняется, форма показывается заново
	long := strings.Repeat("о", 201)
	w = postForm(t, router, fmt.Sprintf("/posts/%d/comment/", post.ID), token, url.Values{
		"text": {long},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.ORM.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestNotFoundPage(t *testing.T) {
	router := setupRouter(t)

	w := getPage(t, router, "/nonexistent-page/", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Кастомная страница Not Found 404")

	w = getPage(t, router, "/posts/999999/", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = getPage(t, router, "/group/no-such-slug/", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = getPage(t, router, "/profile/no_such_user/", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignupAndLogin(t *testing.T) {
	router := setupRouter(t)

	username := fmt.Sprintf("newbie_%s", gofakeit.DigitN(8))

	w := postForm(t, router, "/auth/signup/", "", url.Values{
		"username": {username},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login/", w.Header().Get("Location"))

	w = postForm(t, router, "/auth/login/", "", url.Values{
		"username": {username},
		"password": {"secret123"},
		"next":     {"/create/"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/create/", w.Header().Get("Location"))

	// Кука с токеном выставлена
	cookies := w.Result().Cookies()
	var token string
	for _, cookie := range cookies {
		if cookie.Name == "auth_token" {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token)

	// Неверный пароль - снова форма логина
	w = postForm(t, router, "/auth/login/", "", url.Values{
		"username": {username},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Неверное имя пользователя или пароль")
}

func TestStaticPages(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/about/author/", "/about/tech/"} {
		w := getPage(t, router, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}
