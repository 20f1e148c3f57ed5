package server

import (
	"github.com/buddyboard/buddyboard/internal/config"
	"github.com/buddyboard/buddyboard/internal/database"
	"github.com/buddyboard/buddyboard/internal/handlers"
	"github.com/buddyboard/buddyboard/internal/oauth"
	"github.com/buddyboard/buddyboard/internal/session"
	ws "github.com/buddyboard/buddyboard/internal/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	Router   *gin.Engine
	DB       *database.Database
	Sessions *session.Store
	Hub      *ws.Hub

	cfg config.Config
	log *zap.SugaredLogger
}

func New(cfg config.Config, log *zap.SugaredLogger) (*Server, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewStore(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(log)
	go hub.Run()

	google := oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL)
	cookie := handlers.CookieOptions{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}

	authH := handlers.NewAuthHandler(db, sessions, google, cfg.FrontendURL, cookie, log)
	groupH := handlers.NewGroupHandler(db, log)
	messageH := handlers.NewMessageHandler(db, hub, log)
	activityH := handlers.NewActivityHandler(db, log)
	wsH := handlers.NewWebSocketHandler(hub, messageH, cfg.FrontendURL, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	registerRoutes(router, sessions, authH, groupH, messageH, activityH, wsH)

	return &Server{
		Router:   router,
		DB:       db,
		Sessions: sessions,
		Hub:      hub,
		cfg:      cfg,
		log:      log,
	}, nil
}

func (s *Server) Run() error {
	s.log.Infow("server starting", "port", s.cfg.Port)
	return s.Router.Run(":" + s.cfg.Port)
}

// Shutdown tears down the realtime hub and the session store connection.
func (s *Server) Shutdown() {
	s.Hub.Stop()
	if err := s.Sessions.Close(); err != nil {
		s.log.Warnw("close session store", "error", err)
	}
}
