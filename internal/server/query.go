package server

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saathi-labs/saathi/internal/pipeline"
)

// QueryHandler exposes the pipeline over the multipart HTTP surface.
type QueryHandler struct {
	Orch          *pipeline.Orchestrator
	MaxAudioBytes int64
	MaxImageBytes int64
	Logger        *log.Logger
}

// Register attaches the handler routes to the API group.
func (h *QueryHandler) Register(g *echo.Group) {
	g.POST("/query", h.query)
	g.POST("/transcribe", h.transcribe)
	g.POST("/analyze-screen", h.analyzeScreen)
}

// query handles POST /api/query: optional audio, optional image, optional
// text. At least one of audio/text must be present.
func (h *QueryHandler) query(c echo.Context) error {
	input := pipeline.QueryInput{Text: c.FormValue("text")}

	if fh, err := c.FormFile("audio"); err == nil {
		data, err := readFormFile(fh, h.MaxAudioBytes)
		if err != nil {
			return err
		}
		input.Audio = &pipeline.AudioPayload{Data: data, Filename: fh.Filename}
	}

	if fh, err := c.FormFile("image"); err == nil {
		data, err := readFormFile(fh, h.MaxImageBytes)
		if err != nil {
			return err
		}
		input.Image = data
	}

	if h.Logger != nil {
		h.Logger.Printf("query: text=%t audio=%t image=%t", input.Text != "", input.Audio != nil, input.Image != nil)
	}

	resp, err := h.Orch.Process(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, QueryResponse{
		Success:          true,
		Query:            resp.Query,
		Response:         resp.Response,
		HasScreenContext: resp.HasScreenContext,
		UsedWebSearch:    resp.UsedWebSearch,
	})
}

// transcribe handles POST /api/transcribe with a required audio file.
func (h *QueryHandler) transcribe(c echo.Context) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return &pipeline.Error{Kind: pipeline.KindInvalidInput, Step: pipeline.StepInput, Message: "'audio' file is required"}
	}
	data, err := readFormFile(fh, h.MaxAudioBytes)
	if err != nil {
		return err
	}

	text, err := h.Orch.Transcribe(c.Request().Context(), data, fh.Filename)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TranscriptionResponse{Success: true, Text: text})
}

// analyzeScreen handles POST /api/analyze-screen with a required image file.
func (h *QueryHandler) analyzeScreen(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return &pipeline.Error{Kind: pipeline.KindInvalidInput, Step: pipeline.StepInput, Message: "'image' file is required"}
	}
	data, err := readFormFile(fh, h.MaxImageBytes)
	if err != nil {
		return err
	}

	description, err := h.Orch.AnalyzeScreen(c.Request().Context(), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AnalyzeScreenResponse{Success: true, Description: description})
}

// readFormFile reads an uploaded file, refusing payloads above max bytes.
func readFormFile(fh *multipart.FileHeader, max int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, &pipeline.Error{Kind: pipeline.KindInvalidInput, Step: pipeline.StepInput,
			Message: fmt.Sprintf("reading upload %q: %v", fh.Filename, err)}
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, max+1))
	if err != nil {
		return nil, &pipeline.Error{Kind: pipeline.KindInvalidInput, Step: pipeline.StepInput,
			Message: fmt.Sprintf("reading upload %q: %v", fh.Filename, err)}
	}
	if int64(len(data)) > max {
		return nil, &pipeline.Error{Kind: pipeline.KindInvalidInput, Step: pipeline.StepInput,
			Message: fmt.Sprintf("upload %q exceeds maximum size %.2fMB", fh.Filename, float64(max)/(1<<20))}
	}
	return data, nil
}
