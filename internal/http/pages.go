package http

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"prompt-gallery-go/internal/gallery"
	"prompt-gallery-go/internal/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Admin sessions for the rendered pages ride in a cookie; the API keeps its
// bearer header. Both resolve against the same session store.
const sessionCookie = "admin_session"

// pageSize is how many prompts each "Load more" step adds to the list page.
const pageSize = 12

// registerPages wires the server-rendered pages: the gallery list with its
// search filter and load-more paging, the login page, the add/edit/delete
// forms, and the single-prompt view. The ad slot renders only when an ad
// client id is configured.
func (s *Server) registerPages(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	r.GET("/", s.indexPage)
	r.GET("/prompts/:id", s.viewPage)
	r.GET("/login", s.loginPage)
	r.POST("/login", s.loginSubmit)
	r.POST("/logout", s.logoutSubmit)

	admin := r.Group("", s.requirePageAdmin())
	admin.GET("/add", s.addPage)
	admin.POST("/add", s.addSubmit)
	admin.GET("/edit/:id", s.editPage)
	admin.POST("/edit/:id", s.editSubmit)
	admin.POST("/delete/:id", s.deleteSubmit)
}

// pageAdmin reports whether the request carries a live admin session cookie.
func (s *Server) pageAdmin(c *gin.Context) bool {
	token, err := c.Cookie(sessionCookie)
	return err == nil && s.sessions.Valid(token)
}

func (s *Server) requirePageAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.pageAdmin(c) {
			c.Redirect(303, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) indexPage(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}

	// "Load more" accumulates: page n renders the first n pages in one list,
	// so following the link keeps everything already on screen.
	prompts, pagination, err := s.svc.List(c.Request.Context(), 1, page*pageSize)
	if err != nil {
		c.HTML(500, "error.tmpl", gin.H{"Message": "Failed to load prompts", "AdClient": s.cfg.AdClientID})
		return
	}

	// The filter narrows already-loaded prompts only; it never queries.
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		prompts = filterPrompts(prompts, q)
	}

	c.HTML(200, "index.tmpl", gin.H{
		"Prompts":  prompts,
		"Query":    c.Query("q"),
		"HasMore":  pagination.HasMore,
		"NextPage": page + 1,
		"IsAdmin":  s.pageAdmin(c),
		"AdClient": s.cfg.AdClientID,
	})
}

func (s *Server) viewPage(c *gin.Context) {
	prompt, err := s.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.pageError(c, err)
		return
	}
	c.HTML(200, "view.tmpl", gin.H{"Prompt": prompt, "AdClient": s.cfg.AdClientID})
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(200, "login.tmpl", gin.H{"Error": "", "AdClient": s.cfg.AdClientID})
}

func (s *Server) loginSubmit(c *gin.Context) {
	token, ok := s.sessions.Login(c.PostForm("password"))
	if !ok {
		c.HTML(401, "login.tmpl", gin.H{"Error": "Wrong password", "AdClient": s.cfg.AdClientID})
		return
	}
	c.SetCookie(sessionCookie, token, int(s.cfg.SessionTTL/time.Second), "/", "", false, true)
	c.Redirect(303, "/")
}

func (s *Server) logoutSubmit(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Logout(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(303, "/")
}

func (s *Server) addPage(c *gin.Context) {
	s.renderAdd(c, "", "", nil)
}

func (s *Server) addSubmit(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")

	image, closeImage, err := s.pageImage(c)
	if err != nil {
		s.renderAdd(c, title, description, err)
		return
	}
	defer closeImage()

	prompt, err := s.svc.Create(c.Request.Context(), title, description, image)
	if err != nil {
		s.renderAdd(c, title, description, err)
		return
	}
	c.Redirect(303, "/prompts/"+prompt.ID)
}

func (s *Server) renderAdd(c *gin.Context, title, description string, err error) {
	status, msg := formStatus(err)
	c.HTML(status, "add.tmpl", gin.H{
		"Error":       msg,
		"Title":       title,
		"Description": description,
		"AdClient":    s.cfg.AdClientID,
	})
}

func (s *Server) editPage(c *gin.Context) {
	prompt, err := s.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.pageError(c, err)
		return
	}
	c.HTML(200, "edit.tmpl", gin.H{"Prompt": prompt, "Error": "", "AdClient": s.cfg.AdClientID})
}

func (s *Server) editSubmit(c *gin.Context) {
	id := c.Param("id")
	title := c.PostForm("title")
	description := c.PostForm("description")

	image, closeImage, err := s.pageImage(c)
	if err == nil {
		defer closeImage()
		_, err = s.svc.Update(c.Request.Context(), id, title, description, image, c.PostForm("currentImageUrl"))
	}
	if err == nil {
		c.Redirect(303, "/prompts/"+id)
		return
	}
	if errors.Is(err, gallery.ErrNotFound) {
		s.pageError(c, err)
		return
	}

	// Re-render the form with the submitted values and the failure message.
	prompt, getErr := s.svc.Get(c.Request.Context(), id)
	if getErr != nil {
		s.pageError(c, getErr)
		return
	}
	prompt.Title = title
	prompt.Description = description
	status, msg := formStatus(err)
	c.HTML(status, "edit.tmpl", gin.H{"Prompt": prompt, "Error": msg, "AdClient": s.cfg.AdClientID})
}

func (s *Server) deleteSubmit(c *gin.Context) {
	if err := s.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.pageError(c, err)
		return
	}
	c.Redirect(303, "/")
}

func (s *Server) pageError(c *gin.Context, err error) {
	if errors.Is(err, gallery.ErrNotFound) {
		c.HTML(404, "error.tmpl", gin.H{"Message": "Prompt not found", "AdClient": s.cfg.AdClientID})
		return
	}
	c.HTML(500, "error.tmpl", gin.H{"Message": "Something went wrong", "AdClient": s.cfg.AdClientID})
}

// pageImage opens the optional multipart image field for the form handlers.
func (s *Server) pageImage(c *gin.Context) (io.Reader, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, func() {}, nil
	}
	if header.Size > s.cfg.MaxUploadBytes() {
		return nil, func() {}, &gallery.ValidationError{Detail: "Image is too large"}
	}
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, &gallery.ValidationError{Detail: "Image could not be read"}
	}
	return file, func() { file.Close() }, nil
}

// formStatus maps a form submission error to a status and a message the
// form template can show inline.
func formStatus(err error) (int, string) {
	if err == nil {
		return 200, ""
	}
	var ve *gallery.ValidationError
	switch {
	case errors.As(err, &ve):
		return 400, ve.Detail
	case errors.Is(err, gallery.ErrNotFound):
		return 404, "Prompt not found"
	default:
		return 500, "Something went wrong"
	}
}

func filterPrompts(prompts []models.Prompt, q string) []models.Prompt {
	q = strings.ToLower(q)
	matched := []models.Prompt{}
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
			matched = append(matched, p)
		}
	}
	return matched
}
