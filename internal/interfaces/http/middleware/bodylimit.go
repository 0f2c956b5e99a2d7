package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit returns a middleware rejecting requests whose body exceeds
// maxBytes. Spreadsheet uploads are the largest legitimate payloads; the
// limit comes from http.max_body_size.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REQUEST_TOO_LARGE",
					"message": "El cuerpo de la solicitud supera el tamaño máximo permitido",
				},
			})
			return
		}

		// Chunked requests carry no Content-Length; cap those while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
