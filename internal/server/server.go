package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-rag/internal/apperr"
	"book-rag/internal/catalog"
	"book-rag/internal/models"
	"book-rag/internal/rag"
)

// Server exposes the chat, upload and catalog endpoints.
type Server struct {
	engine     *gin.Engine
	svc        *rag.Service
	registry   *catalog.Registry
	uploadsDir string
}

func New(svc *rag.Service, registry *catalog.Registry, uploadsDir string) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Server{engine: r, svc: svc, registry: registry, uploadsDir: uploadsDir}
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/chat", s.handleChat)
	r.POST("/upload", s.handleUpload)
	r.GET("/documents", s.handleListDocuments)
	return s
}

// Handler exposes the router for tests and embedding in other servers.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

type chatRequest struct {
	DocumentID string                    `json:"documentId"`
	Question   string                    `json:"question"`
	History    []models.ConversationTurn `json:"history"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.ErrInvalidRequest)
		return
	}
	answer, err := s.svc.Chat(c.Request.Context(), req.DocumentID, req.Question, req.History)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		writeError(c, apperr.ErrInvalidRequest)
		return
	}
	title := c.PostForm("title")
	if title == "" {
		title = file.Filename
	}

	id, err := catalog.NewUploadID()
	if err != nil {
		writeError(c, err)
		return
	}
	dst := filepath.Join(s.uploadsDir, id+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		writeError(c, err)
		return
	}

	meta := models.BookMetadata{
		ID:       id,
		Title:    title,
		Author:   c.PostForm("author"),
		Year:     c.PostForm("year"),
		Genre:    c.PostForm("genre"),
		Summary:  c.PostForm("summary"),
		FilePath: dst,
	}
	if err := s.registry.Register(c.Request.Context(), meta); err != nil {
		writeError(c, err)
		return
	}

	// Index in the background; the first chat request would otherwise pay
	// the build. Either way the cache guarantees a single build.
	go func() {
		if err := s.svc.Index(context.Background(), id); err != nil {
			log.Error().Err(err).Str("book", id).Msg("Background indexing failed")
		}
	}()

	c.JSON(http.StatusCreated, gin.H{"documentId": id})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": s.registry.List()})
}

// writeError is the single choke point turning pipeline failures into
// responses: classified status plus the kind's fixed message, nothing else.
func writeError(c *gin.Context, err error) {
	kind := apperr.Classify(err)
	log.Warn().
		Err(err).
		Stringer("kind", kind).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
	c.JSON(kind.HTTPStatus(), gin.H{"error": kind.Message()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Handled request")
	}
}
