package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"artlink/internal/api/middleware"
	"artlink/internal/auth"
	"artlink/internal/config"
	"artlink/internal/domain"
	"artlink/internal/service"
)

// ImageStore 是 HTTP 层用到的对象存储能力，*storage.Client 满足该接口。
type ImageStore interface {
	imageUploader
	objectOpener
}

// Dependencies 汇总路由注册所需的服务与基础设施。Redis 与 Scanner 可以为 nil。
type Dependencies struct {
	Config     *config.Config
	Logger     *slog.Logger
	Tokens     *auth.TokenService
	Redis      *redis.Client
	Storage    ImageStore
	Scanner    VirusScanner
	Artists    *service.ArtistService
	Employers  *service.EmployerService
	Admins     *service.AdminService
	Techniques *service.TechniqueService
	Portfolios *service.PortfolioService
	Artworks   *service.ArtworkService
	Contracts  *service.ContractService
	Search     *service.SearchService
}

// RegisterRoutes 注册 /api 下的业务路由以及 /uploads 图片访问路由。
func RegisterRoutes(router *gin.Engine, d Dependencies) {
	var (
		throttle  *LoginThrottle
		blacklist *TokenBlacklist
		revoked   middleware.RevocationChecker
	)
	if d.Redis != nil {
		throttle = NewLoginThrottle(d.Redis, d.Config.Login)
		blacklist = NewTokenBlacklist(d.Redis)
		revoked = blacklist
	}

	authHandler := NewAuthHandler(d.Artists, d.Employers, d.Admins, d.Tokens, throttle, blacklist)
	artistHandler := NewArtistHandler(d.Artists)
	employerHandler := NewEmployerHandler(d.Employers)
	techniqueHandler := NewTechniqueHandler(d.Techniques)
	portfolioHandler := NewPortfolioHandler(d.Portfolios)
	artworkHandler := NewArtworkHandler(d.Artworks, d.Portfolios)
	contractHandler := NewContractHandler(d.Contracts)
	searchHandler := NewSearchHandler(d.Search)

	authenticated := middleware.AuthMiddleware(d.Tokens, revoked)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()
	artistOrAdmin := middleware.RequireRoles(domain.RoleArtist, domain.RoleAdmin)
	employerOrAdmin := middleware.RequireRoles(domain.RoleEmployer, domain.RoleAdmin)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	// 所有需要登录的业务接口共用：鉴权 + 强制改密拦截。
	protected := []gin.HandlerFunc{authenticated, passwordGate}
	with := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, protected...), handlers...)
	}

	if d.Storage != nil {
		mediaHandler := NewMediaHandler(d.Storage)
		router.GET("/uploads/*path", mediaHandler.Serve)
	}

	apiGroup := router.Group("/api")

	artists := apiGroup.Group("/artists")
	{
		artists.POST("/register", artistHandler.Register)
		artists.POST("/login", authHandler.ArtistLogin)
		artists.GET("", artistHandler.GetAll)
		artists.GET("/:id", artistHandler.GetByID)
		artists.PUT("/:id", with(artistOrAdmin, artistHandler.Update)...)
		artists.DELETE("/:id", with(artistOrAdmin, artistHandler.Delete)...)
	}

	employers := apiGroup.Group("/employers")
	{
		employers.POST("/register", employerHandler.Register)
		employers.POST("/login", authHandler.EmployerLogin)
		employers.GET("", with(employerHandler.GetAll)...)
		employers.GET("/:id", employerHandler.GetByID)
		employers.PUT("/:id", with(employerOrAdmin, employerHandler.Update)...)
		employers.DELETE("/:id", with(employerOrAdmin, employerHandler.Delete)...)
	}

	admins := apiGroup.Group("/admins")
	{
		admins.POST("/login", authHandler.AdminLogin)
		// 改密接口不能挂 passwordGate，否则一次性密码永远无法更换。
		admins.POST("/password", authenticated, adminOnly, authHandler.ChangeAdminPassword)
	}

	apiGroup.POST("/auth/logout", authenticated, authHandler.Logout)

	portfolios := apiGroup.Group("/portfolios")
	{
		portfolios.POST("", with(artistOrAdmin, portfolioHandler.Create)...)
		portfolios.GET("/:id", portfolioHandler.GetByID)
		portfolios.GET("/artist/:artistId", portfolioHandler.GetAllByArtistID)
		portfolios.GET("/technique/:techniqueId", portfolioHandler.GetAllByTechniqueID)
		portfolios.PUT("/:id", with(artistOrAdmin, portfolioHandler.Update)...)
		portfolios.DELETE("/:id", with(artistOrAdmin, portfolioHandler.Delete)...)
	}

	artworks := apiGroup.Group("/artworks")
	{
		artworks.POST("", with(artistOrAdmin, artworkHandler.Create)...)
		artworks.GET("/:id", artworkHandler.GetByID)
		artworks.GET("/portfolio/:portfolioId", artworkHandler.GetAllByPortfolioID)
		artworks.PUT("/:id", with(artistOrAdmin, artworkHandler.Update)...)
		artworks.DELETE("/:id", with(artistOrAdmin, artworkHandler.Delete)...)
	}

	techniques := apiGroup.Group("/techniques")
	{
		techniques.GET("", techniqueHandler.GetAll)
		techniques.GET("/:id", techniqueHandler.GetByID)
		techniques.POST("", with(adminOnly, techniqueHandler.Create)...)
		techniques.PUT("/:id", with(adminOnly, techniqueHandler.Update)...)
		techniques.DELETE("/:id", with(adminOnly, techniqueHandler.Delete)...)
	}

	contracts := apiGroup.Group("/contracts")
	contracts.Use(protected...)
	{
		contracts.POST("", employerOrAdmin, contractHandler.Create)
		contracts.GET("/:id", contractHandler.GetByID)
		contracts.GET("/artist/:artistId", contractHandler.GetAllByArtistID)
		contracts.GET("/employer/:employerId", contractHandler.GetAllByEmployerID)
		contracts.PUT("/:id", contractHandler.Update)
		contracts.DELETE("/:id", contractHandler.Delete)
	}

	search := apiGroup.Group("/search")
	{
		search.GET("/artists", searchHandler.Artists)
		search.GET("/employers", searchHandler.Employers)
		search.GET("/artworks", searchHandler.Artworks)
	}

	if d.Storage != nil {
		uploadHandler := NewUploadHandler(d.Storage, d.Scanner, d.Config.Upload.MaxBytes)
		apiGroup.POST("/uploads/images", with(artistOrAdmin, uploadHandler.UploadImage)...)
	}

	if d.Redis != nil {
		wsHandler := NewWsHandler(d.Redis, d.Tokens, revoked, d.Logger, d.Config.API.AllowedOrigins)
		apiGroup.GET("/ws", wsHandler.HandleConnection)
	}
}
