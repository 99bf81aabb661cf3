package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"linx/social-api/config"
	"linx/social-api/internal/reqctx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const siteVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type response struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// NewTurnstileMiddleware checks the Cloudflare Turnstile token sent in the
// TurnstileToken header. It does nothing when turnstile is disabled.
func NewTurnstileMiddleware(cfg config.Turnstile) gin.HandlerFunc {
	return newTurnstile(cfg, siteVerifyURL, &http.Client{Timeout: 10 * time.Second})
}

func newTurnstile(cfg config.Turnstile, verifyURL string, client *http.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		requestID := c.GetString(reqctx.RequestIDKey)

		token := c.Request.Header.Get("TurnstileToken")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Missing or invalid turnstile token",
				"requestID": requestID,
			})
			return
		}

		resp, err := client.PostForm(verifyURL, url.Values{
			"secret":   {cfg.Secret},
			"response": {token},
			"remoteip": {c.ClientIP()},
		})
		if err != nil {
			zap.L().Error("Failed to reach turnstile", zap.String("requestID", requestID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})
			return
		}
		defer resp.Body.Close()

		var res response
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || !res.Success {
			zap.L().Debug("Turnstile rejected request", zap.String("requestID", requestID), zap.Strings("codes", res.ErrorCodes))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
