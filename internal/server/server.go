package server

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumiere-app/stylist-server/internal/storage"
	"github.com/lumiere-app/stylist-server/internal/stylist"
)

// Stylist is the pipeline surface the HTTP layer calls.
type Stylist interface {
	AnalyzeItem(ctx context.Context, image []byte) (*stylist.AnalysisResult, error)
	ContinueChat(ctx context.Context, message string, image []byte, history []stylist.Turn) (*stylist.ChatTurnResult, error)
}

// ImageFetcher downloads a user-supplied remote image URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Server wires the REST API over the store and the styling pipeline.
type Server struct {
	store     storage.Store
	stylist   Stylist
	fetcher   ImageFetcher
	staticDir string
}

// New creates the HTTP server. staticDir may be empty to disable SPA serving.
func New(store storage.Store, sty Stylist, fetcher ImageFetcher, staticDir string) *Server {
	return &Server{store: store, stylist: sty, fetcher: fetcher, staticDir: staticDir}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.GET("/wardrobe", s.listWardrobe)
	api.POST("/wardrobe", s.insertWardrobe)
	api.GET("/chat", s.listChatHistory)
	api.POST("/chat", s.appendChatMessage)
	api.POST("/analyze", s.analyzeItem)
	api.POST("/stylist", s.stylistChat)

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			engine.Use(static.Serve("/", static.LocalFile(s.staticDir, true)))
		} else {
			log.Warn().Str("dir", s.staticDir).Msg("static dir not found, SPA serving disabled")
		}
	}

	return engine
}
