package app

import (
	"context"
	"time"

	"linx/social-api/app/auth"
	"linx/social-api/app/comment"
	"linx/social-api/app/post"
	"linx/social-api/app/reaction"
	"linx/social-api/app/root"
	"linx/social-api/app/upload"
	"linx/social-api/internal"
	"linx/social-api/internal/reqctx"
	"linx/social-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxBodySize = 1 << 20

// NewRouter registers every endpoint under /v1. Background work started
// here (rate limiter cleanup) stops with ctx.
func NewRouter(ctx context.Context, d *internal.Deps) *gin.Engine {
	cfg := d.Config
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.Host.CORS,
			AllowMethods:     []string{"GET", "HEAD", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		middleware.NewIdentityMiddleware(d.Tokens),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString(reqctx.RequestIDKey); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString(reqctx.UserIDKey); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Security.RateLimit,
		Burst:             cfg.Security.RateLimit * 2,
	})
	go limiter.Cleanup(ctx)

	jwt := middleware.RequireAuth()
	turnstile := middleware.NewTurnstileMiddleware(cfg.Turnstile)
	store := persist.NewMemoryStore(time.Minute)

	with := func(h func(*gin.Context, *internal.Deps)) gin.HandlerFunc {
		return func(c *gin.Context) { h(c, d) }
	}

	m := router.Group("/v1", limiter.Middleware(), middleware.BodySizeLimiter(maxBodySize))
	{
		// HEAD /v1/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	a := m.Group("/auth")
	{
		// POST /v1/auth/signup			-> Registers a new user and logs them in
		a.POST("/signup", turnstile, with(auth.AuthSignup))

		// POST /v1/auth/login			-> Returns a bearer token
		a.POST("/login", with(auth.AuthLogin))

		// GET /v1/auth/me			-> Returns the caller
		a.GET("/me", jwt, with(auth.AuthMe))

		// POST /v1/auth/forgot-password		-> Mails a password reset link
		a.POST("/forgot-password", turnstile, with(auth.AuthForgotPassword))

		// POST /v1/auth/reset-password		-> Sets a new password using a reset code
		a.POST("/reset-password", with(auth.AuthResetPassword))

		// POST /v1/auth/send-verification-email	-> Mails an email verification link
		a.POST("/send-verification-email", turnstile, with(auth.AuthSendVerificationEmail))

		// POST /v1/auth/verify-email		-> Marks the email as verified using a code
		a.POST("/verify-email", with(auth.AuthVerifyEmail))

		// POST /v1/auth/update-email		-> Changes the caller's email
		a.POST("/update-email", jwt, with(auth.AuthUpdateEmail))

		// POST /v1/auth/update-password		-> Changes the caller's password
		a.POST("/update-password", jwt, with(auth.AuthUpdatePassword))
	}

	p := m.Group("/posts")
	{
		// GET /v1/posts			-> Lists posts, newest first
		p.GET("", cacheFor(store, 5), with(post.PostFetchBulk))

		// GET /v1/posts/user/:userId		-> Lists the posts of one user
		p.GET("/user/:userId", cacheFor(store, 5), with(post.PostFetchByUser))

		// GET /v1/posts/:id			-> Returns a post
		p.GET("/:id", with(post.PostFetch))

		// POST /v1/posts			-> Creates a post
		p.POST("", jwt, with(post.PostCreate))

		// PATCH /v1/posts/:id			-> Edits a post owned by the caller
		p.PATCH("/:id", jwt, with(post.PostEdit))

		// DELETE /v1/posts/:id			-> Deletes a post owned by the caller
		p.DELETE("/:id", jwt, with(post.PostDelete))
	}

	cg := m.Group("/comments")
	{
		// GET /v1/comments/posts/:postId	-> Lists the top level comments of a post
		cg.GET("/posts/:postId", with(comment.CommentFetchForPost))

		// GET /v1/comments/:id			-> Returns a comment with its reply count
		cg.GET("/:id", with(comment.CommentFetch))

		// GET /v1/comments/:id/replies		-> Lists the replies to a comment
		cg.GET("/:id/replies", with(comment.CommentFetchReplies))

		// POST /v1/comments			-> Comments on a post or replies to a comment
		cg.POST("", jwt, with(comment.CommentCreate))

		// DELETE /v1/comments/:id		-> Deletes a comment owned by the caller
		cg.DELETE("/:id", jwt, with(comment.CommentDelete))
	}

	rg := m.Group("/reactions")
	{
		// GET /v1/reactions/posts/:postId	-> Lists reactions on a post
		rg.GET("/posts/:postId", with(reaction.ReactionFetchForPost))

		// GET /v1/reactions/comments/:commentId	-> Lists reactions on a comment
		rg.GET("/comments/:commentId", with(reaction.ReactionFetchForComment))

		// POST /v1/reactions			-> Reacts to a post or comment
		rg.POST("", jwt, with(reaction.ReactionCreate))

		// DELETE /v1/reactions/:id		-> Deletes a reaction owned by the caller
		rg.DELETE("/:id", jwt, with(reaction.ReactionDelete))

		// DELETE /v1/reactions/posts/:postId	-> Removes the caller's reaction from a post
		rg.DELETE("/posts/:postId", jwt, with(reaction.ReactionDeleteOnPost))

		// DELETE /v1/reactions/comments/:commentId	-> Removes the caller's reaction from a comment
		rg.DELETE("/comments/:commentId", jwt, with(reaction.ReactionDeleteOnComment))
	}

	u := m.Group("/uploads", jwt)
	{
		// POST /v1/uploads/presigned-url	-> Returns a URL to PUT an image to
		u.POST("/presigned-url", with(upload.UploadPresign))

		// POST /v1/uploads/confirm		-> Records an uploaded image
		u.POST("/confirm", with(upload.UploadConfirm))

		// GET /v1/uploads/my-uploads		-> Lists the caller's images
		u.GET("/my-uploads", with(upload.UploadFetchMine))

		// DELETE /v1/uploads/:uploadId		-> Deletes an image owned by the caller
		u.DELETE("/:uploadId", with(upload.UploadDelete))
	}

	return router
}

func cacheFor(store persist.CacheStore, sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
