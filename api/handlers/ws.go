package handlers

import (
	"log"
	"net/http"

	"yatube/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSFeedHandler - WebSocket для ленты подписок: сюда прилетают
// события о новых постах авторов, на которых подписан пользователь
func WSFeedHandler(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	services.GlobalWSConnManager.Add(userID, conn)
	defer services.GlobalWSConnManager.Remove(userID, conn)

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"connected"}`))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
