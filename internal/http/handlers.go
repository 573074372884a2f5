package http

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"prompt-gallery-go/internal/auth"
	"prompt-gallery-go/internal/config"
	"prompt-gallery-go/internal/gallery"
)

type Server struct {
	cfg      *config.Config
	svc      *gallery.Service
	sessions *auth.Sessions
}

func NewServer(cfg *config.Config, svc *gallery.Service, sessions *auth.Sessions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(logging())
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	s := &Server{cfg: cfg, svc: svc, sessions: sessions}

	api := r.Group("/api")
	api.GET("/prompts", s.listPrompts)
	api.GET("/prompts/:id", s.getPrompt)
	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout)
	api.GET("/auth/session", s.session)

	admin := api.Group("")
	admin.Use(RequireAdmin(sessions))
	{
		admin.POST("/prompts", s.createPrompt)
		admin.PUT("/prompts/:id", s.updatePrompt)
		admin.DELETE("/prompts/:id", s.deletePrompt)
		admin.POST("/prompts/import", s.importPrompts)
	}

	s.registerPages(r)
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r
}

func (s *Server) listPrompts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	prompts, pagination, err := s.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		s.fail(c, err, "Failed to fetch prompts")
		return
	}
	c.JSON(200, gin.H{"data": prompts, "pagination": pagination})
}

func (s *Server) getPrompt(c *gin.Context) {
	prompt, err := s.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to fetch prompt")
		return
	}
	c.JSON(200, prompt)
}

func (s *Server) createPrompt(c *gin.Context) {
	image, closeImage, ok := s.formImage(c)
	if !ok {
		return
	}
	defer closeImage()

	prompt, err := s.svc.Create(c.Request.Context(), c.PostForm("title"), c.PostForm("description"), image)
	if err != nil {
		s.fail(c, err, "Failed to create prompt")
		return
	}
	c.JSON(201, prompt)
}

func (s *Server) updatePrompt(c *gin.Context) {
	image, closeImage, ok := s.formImage(c)
	if !ok {
		return
	}
	defer closeImage()

	prompt, err := s.svc.Update(
		c.Request.Context(),
		c.Param("id"),
		c.PostForm("title"),
		c.PostForm("description"),
		image,
		c.PostForm("currentImageUrl"),
	)
	if err != nil {
		s.fail(c, err, "Failed to update prompt")
		return
	}
	c.JSON(200, prompt)
}

func (s *Server) deletePrompt(c *gin.Context) {
	if err := s.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, "Failed to delete prompt")
		return
	}
	c.Status(204)
}

func (s *Server) importPrompts(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, s.cfg.MaxUploadBytes()))
	if err != nil {
		c.JSON(400, gin.H{"error": "Failed to read payload"})
		return
	}

	n, err := s.svc.Import(c.Request.Context(), payload)
	if err != nil {
		s.fail(c, err, "Failed to import prompts")
		return
	}
	c.JSON(201, gin.H{"imported": n})
}

func (s *Server) login(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	token, ok := s.sessions.Login(input.Password)
	if !ok {
		c.JSON(401, gin.H{"error": "invalid_password"})
		return
	}
	c.JSON(200, gin.H{"token": token, "is_admin": true})
}

func (s *Server) logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		s.sessions.Logout(token)
	}
	c.Status(204)
}

func (s *Server) session(c *gin.Context) {
	c.JSON(200, gin.H{"is_admin": s.sessions.Valid(bearerToken(c))})
}

// formImage opens the optional multipart image field. The third return is
// false when the request was already answered (oversized upload).
func (s *Server) formImage(c *gin.Context) (io.Reader, func(), bool) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, func() {}, true
	}
	if header.Size > s.cfg.MaxUploadBytes() {
		c.JSON(413, gin.H{"error": "file too large"})
		return nil, func() {}, false
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to read file"})
		return nil, func() {}, false
	}
	return file, func() { file.Close() }, true
}

// fail maps the service error taxonomy onto status codes and keeps the
// original surface: a generic message plus the upstream detail string.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	var ve *gallery.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(400, gin.H{"error": "Missing required fields", "details": ve.Detail})
	case errors.Is(err, gallery.ErrNotFound):
		c.JSON(404, gin.H{"error": "Prompt not found"})
	default:
		c.JSON(500, gin.H{"error": msg, "details": err.Error()})
	}
}
