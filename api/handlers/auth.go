package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"yatube/api/middleware"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

// SignUpForm - форма регистрации
func SignUpForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", htmlContext(c, gin.H{
		"title": "Регистрация",
	}))
}

// SignUp регистрирует пользователя и уводит на главную
func SignUp(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	firstName := c.PostForm("first_name")
	lastName := c.PostForm("last_name")

	_, err := userService.Register(c.Request.Context(), username, firstName, lastName, password)
	if err != nil {
		errMsg := "Не удалось зарегистрироваться"
		if errors.Is(err, services.ErrUserExists) {
			errMsg = "Пользователь с таким именем уже существует"
		}
		c.HTML(http.StatusOK, "signup.html", htmlContext(c, gin.H{
			"title":    "Регистрация",
			"error":    errMsg,
			"username": username,
		}))
		return
	}
	c.Redirect(http.StatusFound, "/auth/login/")
}

// LoginForm - форма входа, параметр next сохраняем в скрытом поле
func LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", htmlContext(c, gin.H{
		"title": "Войти",
		"next":  c.Query("next"),
	}))
}

// Login проверяет пароль, ставит куку с токеном и возвращает
// пользователя туда, откуда его увело на логин
func Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, _, err := userService.Login(c.Request.Context(), username, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", htmlContext(c, gin.H{
			"title":    "Войти",
			"error":    "Неверное имя пользователя или пароль",
			"username": username,
			"next":     c.PostForm("next"),
		}))
		return
	}

	c.SetCookie(middleware.AuthCookieName, token, 0, "/", "", false, true)

	next := c.PostForm("next")
	if decoded, err := url.QueryUnescape(next); err == nil && decoded != "" {
		next = decoded
	}
	if next == "" || next[0] != '/' {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout удаляет токен и куку
func Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.AuthCookieName); err == nil {
		_ = userService.Logout(c.Request.Context(), token)
	}
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	c.HTML(http.StatusOK, "logged_out.html", gin.H{
		"title":   "Вы вышли",
		"is_auth": false,
	})
}
