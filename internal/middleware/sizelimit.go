package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifebalance/intake-api/pkg/errors"
	"github.com/lifebalance/intake-api/pkg/httputil"
)

// SizeLimitConfig represents size limit configuration
type SizeLimitConfig struct {
	MaxBodySize   int64 // in bytes
	MaxHeaderSize int   // in bytes
}

func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		MaxBodySize:   1 << 20, // 1MB
		MaxHeaderSize: 1 << 14, // 16KB
	}
}

// SizeLimit rejects oversized requests up front and caps the body reader for
// requests that lie about or omit their length.
func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.MaxBodySize > 0 {
			if c.Request.ContentLength > config.MaxBodySize {
				httputil.RespondWithError(c, errors.TooLarge(
					fmt.Sprintf("request body exceeds %d bytes", config.MaxBodySize)))
				return
			}
			if c.Request.Body != nil {
				c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxBodySize)
			}
		}

		if config.MaxHeaderSize > 0 {
			headerSize := 0
			for name, values := range c.Request.Header {
				headerSize += len(name)
				for _, value := range values {
					headerSize += len(value)
				}
			}
			if headerSize > config.MaxHeaderSize {
				httputil.RespondWithError(c, errors.TooLarge(
					fmt.Sprintf("request headers exceed %d bytes", config.MaxHeaderSize)))
				return
			}
		}

		c.Next()
	}
}
