package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacemate/spacemate/internal/assignment"
	assignmentdomain "github.com/spacemate/spacemate/internal/assignment/domain"
	"github.com/spacemate/spacemate/internal/auth"
	authdomain "github.com/spacemate/spacemate/internal/auth/domain"
	"github.com/spacemate/spacemate/internal/auth/session"
	"github.com/spacemate/spacemate/internal/authorization"
	"github.com/spacemate/spacemate/internal/config"
	"github.com/spacemate/spacemate/internal/meal"
	mealdomain "github.com/spacemate/spacemate/internal/meal/domain"
	"github.com/spacemate/spacemate/internal/notification"
	notificationdomain "github.com/spacemate/spacemate/internal/notification/domain"
	"github.com/spacemate/spacemate/internal/observability"
	obsmiddleware "github.com/spacemate/spacemate/internal/observability/logger"
	obsmetrics "github.com/spacemate/spacemate/internal/observability/metrics"
	"github.com/spacemate/spacemate/internal/payment"
	paymentdomain "github.com/spacemate/spacemate/internal/payment/domain"
	"github.com/spacemate/spacemate/internal/profile"
	profiledomain "github.com/spacemate/spacemate/internal/profile/domain"
	"github.com/spacemate/spacemate/internal/property"
	propertydomain "github.com/spacemate/spacemate/internal/property/domain"
	"github.com/spacemate/spacemate/internal/ratelimit"
	"github.com/spacemate/spacemate/internal/registration"
	registrationdomain "github.com/spacemate/spacemate/internal/registration/domain"
	"github.com/spacemate/spacemate/internal/room"
	roomdomain "github.com/spacemate/spacemate/internal/room/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	session.Module,
	profile.Module,
	property.Module,
	room.Module,
	assignment.Module,
	payment.Module,
	meal.Module,
	notification.Module,
	registration.Module,
	ratelimit.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	sessions        *session.Manager
	authsvc         authdomain.Service
	authzSvc        authorization.Service
	profileSvc      profiledomain.Service
	propertySvc     propertydomain.Service
	roomSvc         roomdomain.Service
	assignmentSvc   assignmentdomain.Service
	paymentSvc      paymentdomain.Service
	mealSvc         mealdomain.Service
	notificationSvc notificationdomain.Service
	registrationSvc registrationdomain.Service
	signupLimiter   *ratelimit.SignupLimiter
	metrics         *obsmetrics.Metrics
}

type Params struct {
	fx.In

	Engine          *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Sessions        *session.Manager
	AuthSvc         authdomain.Service
	AuthzSvc        authorization.Service
	ProfileSvc      profiledomain.Service
	PropertySvc     propertydomain.Service
	RoomSvc         roomdomain.Service
	AssignmentSvc   assignmentdomain.Service
	PaymentSvc      paymentdomain.Service
	MealSvc         mealdomain.Service
	NotificationSvc notificationdomain.Service
	RegistrationSvc registrationdomain.Service
	SignupLimiter   *ratelimit.SignupLimiter `optional:"true"`
	Metrics         *obsmetrics.Metrics
}

func NewServer(p Params) *Server {
	return &Server{
		engine:          p.Engine,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		sessions:        p.Sessions,
		authsvc:         p.AuthSvc,
		authzSvc:        p.AuthzSvc,
		profileSvc:      p.ProfileSvc,
		propertySvc:     p.PropertySvc,
		roomSvc:         p.RoomSvc,
		assignmentSvc:   p.AssignmentSvc,
		paymentSvc:      p.PaymentSvc,
		mealSvc:         p.MealSvc,
		notificationSvc: p.NotificationSvc,
		registrationSvc: p.RegistrationSvc,
		signupLimiter:   p.SignupLimiter,
		metrics:         p.Metrics,
	}
}

func registerRoutes(s *Server) {
	s.RegisterAuthRoutes()
	s.RegisterAPIRoutes()
}

func (s *Server) RegisterAuthRoutes() {
	authGroup := s.engine.Group("/auth")
	{
		signup := authGroup.Group("/signup")
		signup.Use(s.SignupRateLimit())
		{
			signup.POST("/guest", s.SignupGuest)
			signup.POST("/pg-admin", s.SignupPGAdmin)
			signup.POST("/warden", s.SignupWarden)
		}

		authGroup.POST("/login", s.Login)
		authGroup.POST("/logout", s.Logout)
		authGroup.GET("/me", s.AuthRequired(), s.Me)
	}
}

func (s *Server) RegisterAPIRoutes() {
	// Property and room browsing stays public: the guest signup form needs
	// both before an account exists.
	public := s.engine.Group("/api")
	{
		public.GET("/properties", s.ListProperties)
		public.GET("/properties/:id", s.GetProperty)
		public.GET("/properties/:id/rooms", s.ListPropertyRooms)
	}

	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())
	{
		api.GET("/properties/:id/assignments", s.ListPropertyAssignments)
		api.GET("/properties/:id/notifications", s.ListPropertyNotifications)

		api.GET("/assignments", s.ListOwnAssignments)
		api.PUT("/assignments/:id/end", s.EndAssignment)
		api.GET("/payments", s.ListOwnPayments)
		api.PUT("/payments/:id/paid", s.MarkPaymentPaid)

		api.GET("/meals", s.ListMeals)
		api.PUT("/meals/:id", s.SetMealMenu)

		api.GET("/notifications", s.ListOwnNotifications)
		api.PUT("/notifications/:id/read", s.MarkNotificationRead)
	}
}
