package cache

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	persistence "github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Middleware caches responses of pure lookups. Requests with the same path
// and the same body or query share one entry for ttl.
func Middleware(ttl time.Duration) gin.HandlerFunc {
	store := persistence.NewMemoryStore(ttl)
	return cache.Cache(store, ttl, cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		b, k := CustomCacheKeyGenerator(c)
		return b, cache.Strategy{
			CacheKey:      k,
			CacheDuration: ttl,
		}
	}))
}

func CustomCacheKeyGenerator(c *gin.Context) (t bool, key string) {
	_key := c.Request.URL.Path
	defer func() {
		key = uuid.NewMD5(uuid.NameSpaceURL, []byte(_key)).String()
	}()
	switch c.Request.Method {
	case http.MethodGet:
		_key += "?" + c.Request.URL.Query().Encode()
	case http.MethodPost:
		ct := c.Request.Header.Get("Content-Type")
		if strings.Contains(ct, "application/json") {
			data, _ := io.ReadAll(c.Request.Body)
			defer c.Request.Body.Close()
			c.Request.Body = io.NopCloser(bytes.NewBuffer(data))
			_key += string(data)
		} else if strings.Contains(ct, "application/x-www-form-urlencoded") {
			if c.Request.ParseForm() != nil {
				return false, key
			}
			_key += c.Request.PostForm.Encode()
		}
	}

	return true, key
}
