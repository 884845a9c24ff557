package handlers

import (
	"ajo-pools/internal/auth"
	"ajo-pools/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Routes collects the handlers mounted on the router. Admin and Debug are
// optional; a nil handler leaves its routes unregistered.
type Routes struct {
	Verifier    auth.TokenVerifier
	RateLimiter *middleware.RateLimiter
	AdminAPIKey string

	Auth      *AuthHandler
	Pools     *PoolHandler
	Proposals *ProposalHandler
	Ledger    *LedgerHandler
	Health    *HealthHandler
	Admin     *AdminHandler
	Debug     *DebugHandler
}

// RegisterRoutes mounts every API route on router
func RegisterRoutes(router *gin.Engine, rt Routes) {
	var limited gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if rt.RateLimiter != nil {
		limited = rt.RateLimiter.Handler()
	}
	requireAuth := auth.Middleware(rt.Verifier)

	if rt.Health != nil {
		router.GET("/health", rt.Health.Health)
		router.GET("/health/chain", rt.Health.ChainDiagnostics)
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/challenge", limited, rt.Auth.Challenge)
		authGroup.POST("/wallet", limited, rt.Auth.WalletLogin)
		authGroup.GET("/me", requireAuth, rt.Auth.GetMe)
	}

	api := router.Group("/api")

	pools := api.Group("/pools")
	{
		pools.GET("", rt.Pools.ListPools)
		pools.GET("/verify", rt.Pools.VerifyPool)
		pools.GET("/:id", rt.Pools.GetPool)
		pools.GET("/:id/user-position", rt.Pools.GetUserPosition)

		pools.POST("", limited, requireAuth, rt.Pools.CreatePool)
		pools.PUT("/:id", limited, requireAuth, rt.Pools.UpdatePool)
		pools.POST("/:id/join", limited, requireAuth, rt.Pools.JoinPool)
		pools.POST("/:id/activate", limited, requireAuth, rt.Pools.ActivatePool)
		pools.POST("/:id/record-contribution", limited, requireAuth, rt.Ledger.RecordContribution)
		pools.POST("/:id/payout/confirm", limited, requireAuth, rt.Ledger.ConfirmPayout)
	}

	proposals := api.Group("/proposal", limited, requireAuth)
	{
		proposals.POST("", rt.Proposals.CreateProposal)
		proposals.POST("/:id/vote", rt.Proposals.CastVote)
	}

	if rt.Admin != nil && rt.AdminAPIKey != "" {
		admin := api.Group("/admin", RequireAdminKey(rt.AdminAPIKey))
		admin.POST("/update-pool-dates", rt.Admin.UpdatePoolDates)
	}

	if rt.Debug != nil {
		api.GET("/debug/check-wallet", rt.Debug.CheckWallet)
	}
}
