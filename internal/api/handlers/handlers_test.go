package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/codyseavey/card-stash/backend/internal/collection"
	"github.com/codyseavey/card-stash/backend/internal/gallery"
	"github.com/codyseavey/card-stash/backend/internal/imaging"
	"github.com/codyseavey/card-stash/backend/internal/models"
	"github.com/codyseavey/card-stash/backend/internal/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCardRouter(t *testing.T) (*gin.Engine, *collection.Controller) {
	t.Helper()
	ctrl := collection.New(nil, zap.NewNop())
	h := NewCardHandler(ctrl, stats.NewEngine(ctrl))

	r := gin.New()
	r.GET("/api/cards", h.ListCards)
	r.POST("/api/cards", h.CreateCard)
	r.PUT("/api/cards/:id", h.UpdateCard)
	r.DELETE("/api/cards/:id", h.DeleteCard)
	r.GET("/api/cards/stats", h.GetStats)
	r.GET("/api/tags", h.GetTags)
	return r, ctrl
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCardEndpoint(t *testing.T) {
	r, ctrl := newCardRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/cards", models.CardInput{
		Name:          "Michael Jordan",
		Set:           "Fleer",
		PurchasePrice: "100",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var card models.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "Michael Jordan", card.Name)
	assert.Equal(t, 1, ctrl.Len())
}

func TestCreateCardValidationFailure(t *testing.T) {
	r, ctrl := newCardRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/cards", models.CardInput{Name: "", PurchasePrice: "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"name", "purchasePrice"}, resp.Fields)
	assert.Equal(t, 0, ctrl.Len(), "no partial record on validation failure")
}

func TestListCardsFiltering(t *testing.T) {
	r, ctrl := newCardRouter(t)

	_, err := ctrl.Create(models.CardInput{Name: "Michael Jordan", Set: "Fleer", PurchasePrice: "100"})
	require.NoError(t, err)
	_, err = ctrl.Create(models.CardInput{
		Name: "Tom Brady", Set: "Bowman", PurchasePrice: "50",
		IsSold: true, SoldPrice: "80", SoldDate: "2024-01-10",
	})
	require.NoError(t, err)

	var resp struct {
		Cards []models.Card `json:"cards"`
		Count int           `json:"count"`
	}

	w := doJSON(t, r, http.MethodGet, "/api/cards", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	w = doJSON(t, r, http.MethodGet, "/api/cards?query=jordan", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Michael Jordan", resp.Cards[0].Name)

	w = doJSON(t, r, http.MethodGet, "/api/cards?status=Sold", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Tom Brady", resp.Cards[0].Name)
}

func TestUpdateCardEndpoint(t *testing.T) {
	r, ctrl := newCardRouter(t)
	created, err := ctrl.Create(models.CardInput{Name: "before", Set: "Prizm", PurchasePrice: "10"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, "/api/cards/"+created.ID, models.CardInput{
		Name: "after", Set: "Prizm", PurchasePrice: "12",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var card models.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, created.ID, card.ID)
	assert.Equal(t, "after", card.Name)

	w = doJSON(t, r, http.MethodPut, "/api/cards/unknown", models.CardInput{
		Name: "ghost", PurchasePrice: "1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCardEndpointIsIdempotent(t *testing.T) {
	r, ctrl := newCardRouter(t)
	created, err := ctrl.Create(models.CardInput{Name: "doomed", PurchasePrice: "10"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodDelete, "/api/cards/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/cards/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, ctrl.Len())
}

func TestStatsEndpoint(t *testing.T) {
	r, ctrl := newCardRouter(t)

	_, err := ctrl.Create(models.CardInput{Name: "Jordan RC", PurchasePrice: "100", Tags: []string{"Basketball"}})
	require.NoError(t, err)
	_, err = ctrl.Create(models.CardInput{
		Name: "Brady RC", PurchasePrice: "50",
		IsSold: true, SoldPrice: "80", SoldDate: "2024-01-10",
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/cards/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary       stats.Summary         `json:"summary"`
		Distribution  []stats.CategoryCount `json:"distribution"`
		MonthlyProfit []stats.MonthlyProfit `json:"monthlyProfit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 100.0, resp.Summary.TotalInvested)
	assert.Equal(t, 30.0, resp.Summary.RealizedProfit)
	assert.Equal(t, 1, resp.Summary.SoldCount)
	assert.Equal(t, 2, resp.Summary.TotalCards)

	require.Len(t, resp.Distribution, 1)
	assert.Equal(t, "Basketball", resp.Distribution[0].Label)

	require.Len(t, resp.MonthlyProfit, 1)
	assert.Equal(t, "2024-01", resp.MonthlyProfit[0].Month)
}

func TestTagsEndpoint(t *testing.T) {
	r, _ := newCardRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.PresetTags, resp.Tags)
}

func newGalleryRouter(t *testing.T, limiter *rate.Limiter) (*gin.Engine, *gallery.Controller) {
	t.Helper()
	ctrl := gallery.New(nil, imaging.NewIngester(), zap.NewNop())
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	h := NewGalleryHandler(ctrl, limiter, 10<<20, zap.NewNop())

	r := gin.New()
	r.GET("/api/gallery", h.ListItems)
	r.POST("/api/gallery", h.UploadItem)
	r.PUT("/api/gallery/:id", h.UpdateCaption)
	r.DELETE("/api/gallery/:id", h.DeleteItem)
	return r, ctrl
}

func multipartImage(t *testing.T, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestGalleryUpload(t *testing.T) {
	r, ctrl := newGalleryRouter(t, nil)

	body, contentType := multipartImage(t, "charizard.png", smallPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/api/gallery", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Item           models.GalleryItem `json:"item"`
		StorageWarning bool               `json:"storageWarning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "charizard", resp.Item.Caption)
	assert.True(t, strings.HasPrefix(resp.Item.Image, "data:image/jpeg;base64,"))
	assert.False(t, resp.StorageWarning)
	assert.Equal(t, 1, ctrl.Len())
}

func TestGalleryUploadRejectsCorruptImage(t *testing.T) {
	r, ctrl := newGalleryRouter(t, nil)

	body, contentType := multipartImage(t, "broken.png", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/gallery", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, ctrl.Len(), "no gallery entry for a failed ingestion")
}

func TestGalleryUploadRateLimited(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	r, _ := newGalleryRouter(t, limiter)

	payload := smallPNG(t)
	for i, want := range []int{http.StatusCreated, http.StatusTooManyRequests} {
		body, contentType := multipartImage(t, "card.png", payload)
		req := httptest.NewRequest(http.MethodPost, "/api/gallery", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "request %d", i)
	}
}

func TestGalleryCaptionUpdate(t *testing.T) {
	r, ctrl := newGalleryRouter(t, nil)
	created, _, err := ctrl.Create("card.png", bytes.NewReader(smallPNG(t)))
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, "/api/gallery/"+created.ID, map[string]string{"caption": ""})
	require.Equal(t, http.StatusOK, w.Code, "empty captions are allowed")
	assert.Empty(t, ctrl.Items()[0].Caption)

	w = doJSON(t, r, http.MethodPut, "/api/gallery/missing", map[string]string{"caption": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGalleryDelete(t *testing.T) {
	r, ctrl := newGalleryRouter(t, nil)
	created, _, err := ctrl.Create("card.png", bytes.NewReader(smallPNG(t)))
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodDelete, "/api/gallery/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, ctrl.Len())

	w = doJSON(t, r, http.MethodDelete, "/api/gallery/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
