package routes

import (
	"yatube/api/handlers"
	"yatube/api/middleware"

	"github.com/gin-gonic/gin"
)

// Web регистрирует страницы сайта
func Web(router *gin.Engine) {
	router.Use(middleware.OptionalAuth())

	router.GET("/", middleware.CachePage(), handlers.Index)
	router.GET("/group/:slug/", handlers.GroupPosts)
	router.GET("/profile/:username/", handlers.Profile)
	router.GET("/posts/:id/", handlers.PostDetail)

	// Статические страницы
	router.GET("/about/author/", handlers.AboutAuthor)
	router.GET("/about/tech/", handlers.AboutTech)

	// Регистрация и вход
	auth := router.Group("/auth")
	{
		auth.GET("/signup/", handlers.SignUpForm)
		auth.POST("/signup/", handlers.SignUp)
		auth.GET("/login/", handlers.LoginForm)
		auth.POST("/login/", handlers.Login)
		auth.GET("/logout/", handlers.Logout)
		auth.POST("/logout/", handlers.Logout)
	}

	// Всё, что меняет данные, требует входа
	authorized := router.Group("/")
	authorized.Use(middleware.LoginRequired())
	{
		authorized.GET("/create/", handlers.PostCreateForm)
		authorized.POST("/create/", handlers.PostCreate)
		authorized.GET("/posts/:id/edit/", handlers.PostEditForm)
		authorized.POST("/posts/:id/edit/", handlers.PostEdit)
		authorized.POST("/posts/:id/comment/", handlers.AddComment)
		authorized.GET("/follow/", handlers.FollowIndex)
		authorized.GET("/profile/:username/follow/", handlers.ProfileFollow)
		authorized.GET("/profile/:username/unfollow/", handlers.ProfileUnfollow)
		authorized.GET("/ws/feed", handlers.WSFeedHandler)
	}

	// Несуществующие пути - кастомная 404
	router.NoRoute(handlers.NotFound)
}
