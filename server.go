package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"yatube/api/middleware"
	"yatube/api/routes"
	"yatube/config"
	"yatube/db"
	"yatube/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	// Redis не обязателен: без него кеш страниц живет в памяти процесса
	if err := services.InitRedis(); err != nil {
		log.Println("Redis unavailable, falling back to in-process page cache:", err)
	}
	services.InitPageCache()

	// RabbitMQ тоже не обязателен: без него события ленты уходят
	// подписчикам напрямую через WebSocket
	if err := services.InitRabbitMQ(); err != nil {
		log.Println("RabbitMQ unavailable, feed events will be pushed directly:", err)
	} else {
		if err := services.StartFeedEventConsumer(context.Background(), "follow_feed_push"); err != nil {
			log.Println("Failed to start feed event consumer:", err)
		}
	}

	router := gin.Default()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("yatube"))

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/media", config.AppConfig.Media.Dir)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Web(router)
	routes.PublicApi(router)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if config.AppConfig.Backend.Port == 0 {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
