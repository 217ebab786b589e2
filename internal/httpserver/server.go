// Package httpserver is a development stub of the chat backend. It implements
// the same outward contract as the real service (/chat returning a JSON
// response field, /speak returning a WAV payload) so the client can be
// exercised end-to-end without any model infrastructure.
package httpserver

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/audio"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type speakRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a configured Echo server instance with the stub routes.
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/chat", handleChat)
	e.POST("/speak", handleSpeak)
	return e
}

func handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request format"})
	}
	if req.Message == "" {
		// the real backend answers empty input with a prompt, not an error
		return c.JSON(http.StatusOK, chatResponse{Response: "لطفاً یک پیام وارد کنید."})
	}
	reply := fmt.Sprintf("پاسخ آزمایشی برای: %s", req.Message)
	return c.JSON(http.StatusOK, chatResponse{Response: reply})
}

func handleSpeak(c echo.Context) error {
	var req speakRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request format"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "متن خالی است"})
	}
	wav := audio.EncodeWAV(toneFor(req.Text))
	return c.Blob(http.StatusOK, "audio/wav", wav)
}

// toneFor renders a placeholder sine tone whose length tracks the text length,
// so playback timing in the client feels roughly like real speech.
func toneFor(text string) *audio.Clip {
	const (
		rate = 16000
		freq = 440.0
	)
	ms := 200 + 20*len([]rune(text))
	if ms > 2000 {
		ms = 2000
	}
	n := rate * ms / 1000
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	return &audio.Clip{SampleRate: rate, Channels: 1, Samples: samples}
}
