package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spectra-labs/spectra-api/internal/api/metrics"
	"github.com/spectra-labs/spectra-api/internal/core/ports"
)

// GenerativeHandler exposes the three pass-through model operations behind
// the auth gate. It adds nothing beyond binding, validation, and metrics.
type GenerativeHandler struct {
	client ports.Generative
}

func NewGenerativeHandler(client ports.Generative) *GenerativeHandler {
	return &GenerativeHandler{client: client}
}

// Chat handles POST /v1/chat.
//
// @Summary      Generate a text reply
// @Tags         generative
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Prompt"
// @Success      200   {object}  chatResponse
// @Failure      502   {object}  map[string]string
// @Router       /v1/chat [post]
func (h *GenerativeHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	text, err := h.observe("chat", func() (string, error) {
		return h.client.GenerateText(c.Request().Context(), req.Prompt)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Text: text})
}

// Vision handles POST /v1/vision.
//
// @Summary      Analyze an image
// @Tags         generative
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      visionRequest  true  "Prompt and base64 image"
// @Success      200   {object}  chatResponse
// @Failure      502   {object}  map[string]string
// @Router       /v1/vision [post]
func (h *GenerativeHandler) Vision(c echo.Context) error {
	var req visionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	text, err := h.observe("vision", func() (string, error) {
		return h.client.AnalyzeImage(c.Request().Context(), req.Prompt, req.ImageB64, req.MimeType)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Text: text})
}

// GenerateImage handles POST /v1/images.
//
// @Summary      Generate an image
// @Tags         generative
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      imageRequest  true  "Prompt"
// @Success      200   {object}  imageResponse
// @Failure      502   {object}  map[string]string
// @Router       /v1/images [post]
func (h *GenerativeHandler) GenerateImage(c echo.Context) error {
	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	image, err := h.observe("image", func() (string, error) {
		return h.client.GenerateImage(c.Request().Context(), req.Prompt)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, imageResponse{ImageB64: image})
}

// observe wraps a model call with the request counter and latency
// histogram.
func (h *GenerativeHandler) observe(operation string, fn func() (string, error)) (string, error) {
	start := time.Now()
	out, err := fn()
	metrics.GenerativeRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.GenerativeRequestsTotal.WithLabelValues(operation, result).Inc()
	return out, err
}
