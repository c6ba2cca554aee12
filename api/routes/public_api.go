package routes

import (
	"yatube/api/handlers"
	"yatube/api/middleware"

	"github.com/gin-gonic/gin"
)

// PublicApi регистрирует JSON API. Чтение постов и групп открыто,
// всё остальное требует токен.
func PublicApi(router *gin.Engine) *gin.RouterGroup {
	api := router.Group("/api/v1/")
	api.Use(middleware.OptionalAuth())
	{
		// Посты
		api.GET("posts/", handlers.APIPostList)
		api.GET("posts/:id/", handlers.APIPostRetrieve)

		// Комментарии поста
		api.GET("posts/:id/comments/", handlers.APICommentList)
		api.GET("posts/:id/comments/:comment_id/", handlers.APICommentRetrieve)

		// Группы доступны только на чтение
		api.GET("groups/", handlers.APIGroupList)
		api.GET("groups/:id/", handlers.APIGroupRetrieve)
	}

	protected := router.Group("/api/v1/")
	protected.Use(middleware.AuthRequired())
	{
		protected.POST("posts/", handlers.APIPostCreate)
		protected.PUT("posts/:id/", handlers.APIPostUpdate)
		protected.PATCH("posts/:id/", handlers.APIPostUpdate)
		protected.DELETE("posts/:id/", handlers.APIPostDelete)

		protected.POST("posts/:id/comments/", handlers.APICommentCreate)
		protected.PUT("posts/:id/comments/:comment_id/", handlers.APICommentUpdate)
		protected.PATCH("posts/:id/comments/:comment_id/", handlers.APICommentUpdate)
		protected.DELETE("posts/:id/comments/:comment_id/", handlers.APICommentDelete)

		protected.GET("follow/", handlers.APIFollowList)
		protected.POST("follow/", handlers.APIFollowCreate)
	}

	return api
}
