package middleware

import (
	"bytes"
	"net/http"

	"yatube/services"

	"github.com/gin-gonic/gin"
)

type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cachedWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage отдает закешированную страницу целиком, ключ - URL запроса.
// Промах рендерит страницу как обычно и кладет ответ в кеш до истечения TTL.
func CachePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if services.PageCache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if body, ok := services.PageCache.Get(c.Request.Context(), key); ok {
			RecordPageCacheLookup(true)
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			c.Abort()
			return
		}
		RecordPageCacheLookup(false)

		writer := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			services.PageCache.Set(c.Request.Context(), key, writer.body.Bytes())
		}
	}
}
