package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumiere-app/stylist-server/internal/storage"
	"github.com/lumiere-app/stylist-server/internal/stylist"
)

type insertWardrobeRequest struct {
	ImageData       string                   `json:"image_data"`
	Analysis        stylist.FashionAnalysis  `json:"analysis"`
	Recommendations []stylist.Recommendation `json:"recommendations"`
}

type appendChatRequest struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type analyzeRequest struct {
	ImageData string `json:"image_data"`
	ImageURL  string `json:"image_url"`
}

type stylistChatRequest struct {
	Message   string         `json:"message" binding:"required"`
	ImageData string         `json:"image_data"`
	ImageURL  string         `json:"image_url"`
	History   []stylist.Turn `json:"history"`
}

// GET /api/wardrobe
func (s *Server) listWardrobe(c *gin.Context) {
	entries, err := s.store.ListWardrobe()
	if err != nil {
		log.Error().Err(err).Msg("failed to list wardrobe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list wardrobe"})
		return
	}
	if entries == nil {
		entries = []storage.WardrobeEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// POST /api/wardrobe
func (s *Server) insertWardrobe(c *gin.Context) {
	var req insertWardrobeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id, err := s.store.InsertWardrobe(req.ImageData, req.Analysis, req.Recommendations)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert wardrobe entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save wardrobe entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// GET /api/chat
func (s *Server) listChatHistory(c *gin.Context) {
	history, err := s.store.ListChatHistory()
	if err != nil {
		log.Error().Err(err).Msg("failed to list chat history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chat history"})
		return
	}
	if history == nil {
		history = []storage.ChatMessage{}
	}
	c.JSON(http.StatusOK, history)
}

// POST /api/chat
func (s *Server) appendChatMessage(c *gin.Context) {
	var req appendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := s.store.AppendChatMessage(req.Role, req.Content); err != nil {
		log.Error().Err(err).Msg("failed to append chat message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save chat message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /api/analyze
func (s *Server) analyzeItem(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	image, ok := s.resolveImage(c, req.ImageData, req.ImageURL)
	if !ok {
		return
	}

	result, err := s.stylist.AnalyzeItem(c.Request.Context(), image)
	if err != nil {
		if errors.Is(err, stylist.ErrStylingQuotaExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "STYLING_QUOTA_EXCEEDED"})
			return
		}
		log.Error().Err(err).Msg("item analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "ANALYSIS_FAILED"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// POST /api/stylist
func (s *Server) stylistChat(c *gin.Context) {
	var req stylistChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var image []byte
	if req.ImageData != "" || req.ImageURL != "" {
		var ok bool
		image, ok = s.resolveImage(c, req.ImageData, req.ImageURL)
		if !ok {
			return
		}
	}

	result, err := s.stylist.ContinueChat(c.Request.Context(), req.Message, image, req.History)
	if err != nil {
		log.Error().Err(err).Msg("stylist chat failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "STYLIST_FAILED"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// resolveImage turns the request's image fields into raw bytes: inline
// image_data wins over image_url. Writes the error response itself and
// returns ok=false when neither yields an image.
func (s *Server) resolveImage(c *gin.Context, imageData, imageURL string) ([]byte, bool) {
	switch {
	case imageData != "":
		data, err := stylist.DecodeImageData(imageData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image_data"})
			return nil, false
		}
		return data, true
	case imageURL != "":
		data, err := s.fetcher.Fetch(c.Request.Context(), imageURL)
		if err != nil {
			log.Warn().Err(err).Str("url", imageURL).Msg("failed to fetch remote image")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to fetch image_url"})
			return nil, false
		}
		return data, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_data or image_url is required"})
		return nil, false
	}
}
