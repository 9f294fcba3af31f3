package server

import (
	"context"
	"net/http"
	"time"

	"gymcore/internal/auth"
	"gymcore/internal/config"
	"gymcore/internal/email"
	"gymcore/internal/invoice"
	"gymcore/internal/lead"
	"gymcore/internal/locker"
	"gymcore/internal/member"
	"gymcore/internal/plan"
	"gymcore/internal/saas"
	"gymcore/internal/store"
	"gymcore/internal/tenant"
	"gymcore/internal/user"
	"gymcore/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var (
	// staffRoles run the front desk.
	staffRoles = []auth.Role{auth.RoleSuperAdmin, auth.RoleBranchAdmin, auth.RoleManager, auth.RoleStaff, auth.RoleTrainer}
	// managerRoles configure a tenant: plans, staff, products.
	managerRoles = []auth.Role{auth.RoleSuperAdmin, auth.RoleBranchAdmin, auth.RoleManager}
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	email      *email.Service
}

func New(database *sqlx.DB, cfg *config.Config, services *Services, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	router.GET("/health", Health(database))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	registerRoutes(router, cfg.JWTSecret, services, emailService)

	return &Server{
		router: router,
		db:     database,
		config: cfg,
		email:  emailService,
	}
}

func registerRoutes(router *gin.Engine, jwtSecret string, services *Services, emailService *email.Service) {
	userHandler := user.NewHandler(services.Users)
	tenantHandler := tenant.NewHandler(services.Tenants)
	saasHandler := saas.NewHandler(services.SaaS)
	planHandler := plan.NewHandler(services.Plans)
	memberHandler := member.NewHandler(services.Members)
	invoiceHandler := invoice.NewHandler(services.Invoices)
	walletHandler := wallet.NewHandler(services.Wallets)
	lockerHandler := locker.NewHandler(services.Lockers)
	leadHandler := lead.NewHandler(services.Leads)
	storeHandler := store.NewHandler(services.Store)

	public := router.Group("/auth")
	{
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(jwtSecret)
	activeTenant := ActiveTenantMiddleware(services.Guard)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/limits", saasHandler.Limits)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleSuperAdmin))
	{
		admin.POST("/tenants", tenantHandler.Onboard)
		admin.GET("/tenants", tenantHandler.ListMine)
		admin.GET("/tenants/:id", tenantHandler.Get)
		admin.POST("/tenants/:id/suspend", tenantHandler.Suspend)
		admin.POST("/tenants/:id/activate", tenantHandler.Activate)
		admin.DELETE("/tenants/:id", tenantHandler.Delete)

		admin.GET("/tenants/:id/subscription", saasHandler.GetSubscription)
		admin.PUT("/tenants/:id/subscription", saasHandler.Assign)
		admin.DELETE("/tenants/:id/subscription", saasHandler.Suspend)

		admin.POST("/saas-plans", saasHandler.CreatePlan)
		admin.GET("/saas-plans", saasHandler.ListPlans)
		admin.GET("/saas-plans/:id", saasHandler.GetPlan)
		admin.PUT("/saas-plans/:id", saasHandler.UpdatePlan)
		admin.DELETE("/saas-plans/:id", saasHandler.DeletePlan)

		if emailService != nil {
			admin.POST("/test-email", TestEmail(emailService))
		}
	}

	branches := router.Group("/branches")
	branches.Use(authMiddleware, auth.RequireRole(auth.RoleSuperAdmin, auth.RoleBranchAdmin), activeTenant)
	{
		branches.GET("", tenantHandler.ListMine)
		branches.POST("", auth.RequireRole(auth.RoleBranchAdmin), tenantHandler.AddBranch)
	}

	manage := router.Group("/")
	manage.Use(authMiddleware, auth.RequireRole(managerRoles...), activeTenant)
	{
		manage.POST("/plans", planHandler.Create)
		manage.PUT("/plans/:id", planHandler.Update)
		manage.DELETE("/plans/:id", planHandler.Delete)

		manage.POST("/staff", userHandler.CreateStaff)
		manage.GET("/staff", userHandler.ListStaff)
		manage.DELETE("/staff/:id", userHandler.DeleteStaff)

		manage.POST("/products", storeHandler.CreateProduct)
		manage.POST("/products/:id/restock", storeHandler.Restock)

		manage.POST("/lockers", lockerHandler.Create)
		manage.DELETE("/members/:id", memberHandler.Delete)
	}

	desk := router.Group("/")
	desk.Use(authMiddleware, auth.RequireRole(staffRoles...), activeTenant)
	{
		desk.GET("/plans", planHandler.List)
		desk.GET("/plans/:id", planHandler.Get)

		desk.POST("/members", memberHandler.Create)
		desk.GET("/members", memberHandler.List)
		desk.GET("/members/expiring", memberHandler.ExpiringSoon)
		desk.GET("/members/expired", memberHandler.RecentlyExpired)
		desk.GET("/members/export", memberHandler.Export)
		desk.GET("/members/:id", memberHandler.Get)
		desk.PUT("/members/:id", memberHandler.Update)
		desk.POST("/members/:id/plan", memberHandler.AssignPlan)
		desk.POST("/members/:id/renew", memberHandler.Renew)
		desk.POST("/members/:id/freeze", memberHandler.Freeze)
		desk.POST("/members/:id/unfreeze", memberHandler.Unfreeze)
		desk.POST("/members/:id/gift", memberHandler.GiftDays)
		desk.POST("/members/:id/toggle", memberHandler.ToggleStatus)
		desk.POST("/members/:id/cancel", memberHandler.Cancel)
		desk.POST("/members/:id/benefits/:name/use", memberHandler.UseBenefit)

		desk.GET("/invoices", invoiceHandler.List)
		desk.GET("/invoices/:id", invoiceHandler.Get)
		desk.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)
		desk.POST("/invoices/:id/pay-wallet", invoiceHandler.PayFromWallet)

		desk.GET("/wallets/:memberID", walletHandler.GetBalance)
		desk.POST("/wallets/:memberID/topup", walletHandler.TopUp)
		desk.GET("/wallets/:memberID/transactions", walletHandler.ListTransactions)

		desk.GET("/lockers", lockerHandler.List)
		desk.POST("/lockers/:id/assign", lockerHandler.Assign)
		desk.POST("/lockers/:id/release", lockerHandler.Release)

		desk.POST("/leads", leadHandler.Create)
		desk.GET("/leads", leadHandler.List)
		desk.GET("/leads/:id", leadHandler.Get)
		desk.POST("/leads/:id/contact", leadHandler.Contact)
		desk.POST("/leads/:id/lost", leadHandler.MarkLost)
		desk.POST("/leads/:id/convert", leadHandler.Convert)

		desk.GET("/products", storeHandler.ListProducts)
		desk.POST("/checkout", storeHandler.Checkout)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
