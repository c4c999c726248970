// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/accountrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/accountservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/carddelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/cardrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/cardservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/complaintdelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/complaintrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/complaintservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/contactrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/ledgerdelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/ledgerservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/middleware"
	"github.com/shobh123/pay-securely-and-carefree/internal/qrdelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/qrservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/reviewdelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/reviewservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/sessiondelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/sessionrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/sessionservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/snapshotrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/transferdelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/transferservice"
	"github.com/shobh123/pay-securely-and-carefree/internal/userdelivery"
	"github.com/shobh123/pay-securely-and-carefree/internal/userrepo"
	"github.com/shobh123/pay-securely-and-carefree/internal/userservice"
	"github.com/shobh123/pay-securely-and-carefree/pkg/configpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/moneypkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/tokenpkg"
)

// Server holds db connections, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Redis  *redis.Client
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, redisClient *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)
	contactRepo := contactrepo.NewRepoPGS(conn)
	complaintRepo := complaintrepo.NewRepoPGS(conn)
	cardRepo := cardrepo.NewRepoPGS(conn)
	snapshotRepo := snapshotrepo.NewRepoRedis(redisClient)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	ledgerService := ledgerservice.New(accountService, snapshotRepo)
	transferService := transferservice.New(ledgerService, contactRepo)
	cardService := cardservice.New(cardRepo, ledgerService)
	reviewService := reviewservice.New(contactRepo, ledgerService)
	complaintService := complaintservice.New(complaintRepo, ledgerService)
	qrService := qrservice.New(redisClient, ledgerService, config.QRRequestDuration)

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	userHandler := userdelivery.NewHandler(userService, accountService, sessionService, config)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	transferHandler := transferdelivery.NewHandler(transferService)
	cardHandler := carddelivery.NewHandler(cardService)
	reviewHandler := reviewdelivery.NewHandler(reviewService)
	complaintHandler := complaintdelivery.NewHandler(complaintService)
	qrHandler := qrdelivery.NewHandler(qrService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.GET("/balance", ledgerHandler.Balance)
	authRoutes.GET("/transactions", ledgerHandler.Transactions)

	authRoutes.POST("/transfers", transferHandler.Create)
	authRoutes.POST("/topups", cardHandler.TopUp)

	authRoutes.GET("/cards", cardHandler.List)
	authRoutes.POST("/cards", cardHandler.Add)
	authRoutes.DELETE("/cards/:id", cardHandler.Remove)

	authRoutes.GET("/contacts", reviewHandler.Contacts)
	authRoutes.POST("/contacts", reviewHandler.AddContact)
	authRoutes.GET("/contacts/:id/reviews", reviewHandler.Reviews)
	authRoutes.POST("/contacts/:id/reviews", reviewHandler.Submit)

	authRoutes.GET("/complaints", complaintHandler.List)
	authRoutes.POST("/complaints", complaintHandler.Create)
	authRoutes.POST("/fraud-reports", complaintHandler.ReportFraud)

	authRoutes.POST("/qr", qrHandler.Generate)
	authRoutes.POST("/qr/pay", qrHandler.Pay)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		DB:     conn,
		Redis:  redisClient,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
