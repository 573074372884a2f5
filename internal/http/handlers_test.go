package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prompt-gallery-go/internal/auth"
	"prompt-gallery-go/internal/config"
	"prompt-gallery-go/internal/gallery"
	"prompt-gallery-go/internal/models"
	"prompt-gallery-go/internal/storage"
)

const testPassword = "s3cret"

func testServer(t *testing.T) (*gin.Engine, *storage.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Prompt{}))

	store := storage.NewMemStore()
	cfg := &config.Config{
		AllowOrigins: "*",
		MaxUploadMB:  15,
	}
	svc := gallery.NewService(db, store)
	sessions := auth.NewSessions(testPassword, "", time.Hour)

	return NewServer(cfg, svc, sessions), store
}

func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"password": testPassword})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func promptForm(t *testing.T, title, description string, withImage bool, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("description", description))
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "test.png")
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		img.Set(4, 4, color.RGBA{G: 255, A: 255})
		require.NoError(t, png.Encode(part, img))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func doReq(r *gin.Engine, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestPromptLifecycle(t *testing.T) {
	r, store := testServer(t)
	token := adminToken(t, r)

	// create
	body, contentType := promptForm(t, "A", "d", true, nil)
	w := doReq(r, http.MethodPost, "/api/prompts", token, body, contentType)
	require.Equal(t, 201, w.Code, w.Body.String())

	var created models.Prompt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.ImageURL)
	assert.True(t, store.Has(storage.ObjectNameFromURL(*created.ImageURL)))

	// get
	w = doReq(r, http.MethodGet, "/api/prompts/"+created.ID, "", nil, "")
	require.Equal(t, 200, w.Code)
	var fetched models.Prompt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "A", fetched.Title)

	// delete
	w = doReq(r, http.MethodDelete, "/api/prompts/"+created.ID, token, nil, "")
	require.Equal(t, 204, w.Code)
	assert.Empty(t, w.Body.String())

	// get again
	w = doReq(r, http.MethodGet, "/api/prompts/"+created.ID, "", nil, "")
	assert.Equal(t, 404, w.Code)
}

func TestCreateRequiresAdminSession(t *testing.T) {
	r, _ := testServer(t)

	body, contentType := promptForm(t, "A", "d", true, nil)
	w := doReq(r, http.MethodPost, "/api/prompts", "", body, contentType)
	assert.Equal(t, 401, w.Code)

	body, contentType = promptForm(t, "A", "d", true, nil)
	w = doReq(r, http.MethodPost, "/api/prompts", "bogus-token", body, contentType)
	assert.Equal(t, 401, w.Code)
}

func TestCreateMissingFields(t *testing.T) {
	r, store := testServer(t)
	token := adminToken(t, r)

	tests := []struct {
		name       string
		title      string
		desc       string
		withImage  bool
		wantDetail string
	}{
		{"no title", "", "d", true, "Title is required"},
		{"no description", "A", "", true, "Description is required"},
		{"no image", "A", "d", false, "Image is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := promptForm(t, tt.title, tt.desc, tt.withImage, nil)
			w := doReq(r, http.MethodPost, "/api/prompts", token, body, contentType)
			require.Equal(t, 400, w.Code)

			var resp struct {
				Error   string `json:"error"`
				Details string `json:"details"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Missing required fields", resp.Error)
			assert.Equal(t, tt.wantDetail, resp.Details)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestUpdateEmptyTitleLeavesRowUnchanged(t *testing.T) {
	r, _ := testServer(t)
	token := adminToken(t, r)

	body, contentType := promptForm(t, "original", "desc", true, nil)
	w := doReq(r, http.MethodPost, "/api/prompts", token, body, contentType)
	require.Equal(t, 201, w.Code)
	var created models.Prompt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body, contentType = promptForm(t, "", "x", false, nil)
	w = doReq(r, http.MethodPut, "/api/prompts/"+created.ID, token, body, contentType)
	assert.Equal(t, 400, w.Code)

	w = doReq(r, http.MethodGet, "/api/prompts/"+created.ID, "", nil, "")
	require.Equal(t, 200, w.Code)
	var after models.Prompt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, "original", after.Title)
	assert.Equal(t, "desc", after.Description)
}

func TestUpdateWithNewImage(t *testing.T) {
	r, store := testServer(t)
	token := adminToken(t, r)

	body, contentType := promptForm(t, "t", "d", true, nil)
	w := doReq(r, http.MethodPost, "/api/prompts", token, body, contentType)
	require.Equal(t, 201, w.Code)
	var created models.Prompt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	oldURL := *created.ImageURL

	body, contentType = promptForm(t, "t", "d", true, map[string]string{"currentImageUrl": oldURL})
	w = doReq(r, http.MethodPut, "/api/prompts/"+created.ID, token, body, contentType)
	require.Equal(t, 200, w.Code)

	var updated models.Prompt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.ImageURL)
	assert.NotEqual(t, oldURL, *updated.ImageURL)
	assert.False(t, store.Has(storage.ObjectNameFromURL(oldURL)))
}

func TestDeleteUnknownIDIsIdempotent(t *testing.T) {
	r, _ := testServer(t)
	token := adminToken(t, r)

	w := doReq(r, http.MethodDelete, "/api/prompts/never-existed", token, nil, "")
	assert.Equal(t, 204, w.Code)
}

func TestListEnvelope(t *testing.T) {
	r, _ := testServer(t)
	token := adminToken(t, r)

	for _, title := range []string{"one", "two", "three"} {
		body, contentType := promptForm(t, title, "d", true, nil)
		w := doReq(r, http.MethodPost, "/api/prompts", token, body, contentType)
		require.Equal(t, 201, w.Code)
	}

	// Without paging params: everything, same envelope.
	w := doReq(r, http.MethodGet, "/api/prompts", "", nil, "")
	require.Equal(t, 200, w.Code)
	var all struct {
		Data       []models.Prompt    `json:"data"`
		Pagination gallery.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Data, 3)
	assert.EqualValues(t, 3, all.Pagination.Total)
	assert.False(t, all.Pagination.HasMore)

	// With paging params.
	w = doReq(r, http.MethodGet, "/api/prompts?page=1&limit=2", "", nil, "")
	require.Equal(t, 200, w.Code)
	var paged struct {
		Data       []models.Prompt    `json:"data"`
		Pagination gallery.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	assert.Len(t, paged.Data, 2)
	assert.True(t, paged.Pagination.HasMore)
	assert.Equal(t, 2, paged.Pagination.TotalPages)
}

func TestImportEndpoint(t *testing.T) {
	r, _ := testServer(t)
	token := adminToken(t, r)

	payload := `[{"title": "a", "description": "b"}]`
	w := doReq(r, http.MethodPost, "/api/prompts/import", token, bytes.NewReader([]byte(payload)), "application/json")
	require.Equal(t, 201, w.Code, w.Body.String())

	var out struct {
		Imported int `json:"imported"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Imported)

	w = doReq(r, http.MethodPost, "/api/prompts/import", token, bytes.NewReader([]byte(`[{"title": "x"}]`)), "application/json")
	assert.Equal(t, 400, w.Code)
}

func TestSessionEndpoints(t *testing.T) {
	r, _ := testServer(t)

	body, _ := json.Marshal(map[string]string{"password": "wrong"})
	w := doReq(r, http.MethodPost, "/api/auth/login", "", bytes.NewReader(body), "application/json")
	assert.Equal(t, 401, w.Code)

	token := adminToken(t, r)

	w = doReq(r, http.MethodGet, "/api/auth/session", token, nil, "")
	require.Equal(t, 200, w.Code)
	var status struct {
		IsAdmin bool `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.IsAdmin)

	w = doReq(r, http.MethodPost, "/api/auth/logout", token, nil, "")
	assert.Equal(t, 204, w.Code)

	w = doReq(r, http.MethodGet, "/api/auth/session", token, nil, "")
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.IsAdmin)
}

func TestHealth(t *testing.T) {
	r, _ := testServer(t)
	w := doReq(r, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, 200, w.Code)
}
