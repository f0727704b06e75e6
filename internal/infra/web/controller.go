package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
	"voice-chat/internal/infra/audio"
)

const sessionCookie = "vc_session"

const (
	CaptureUpload     = "upload"
	CaptureMicrophone = "microphone"
)

type SessionStore interface {
	application.SessionStore
	Len() int
}

type Controller struct {
	cfg        Config
	assistant  *application.Assistant
	sessions   SessionStore
	microphone application.AudioSource
	clips      *ClipStore
	hub        *Hub
	logger     *slog.Logger
}

type turnView struct {
	domain.Turn
	ClipURL string `json:"clip_url,omitempty"`
}

type speakResponse struct {
	State      domain.TurnState `json:"state"`
	Turn       *turnView        `json:"turn,omitempty"`
	Diagnostic string           `json:"diagnostic,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func clipURL(id string) string {
	if id == "" {
		return ""
	}
	return "/api/clips/" + id
}

func viewTurns(turns []domain.Turn) []turnView {
	views := make([]turnView, 0, len(turns))
	for _, t := range turns {
		views = append(views, turnView{Turn: t, ClipURL: clipURL(t.ClipID)})
	}
	return views
}

// session resolves the caller's session from the cookie, creating one and
// setting the cookie when it is missing or unknown.
func (ctl *Controller) session(c *gin.Context) *application.Session {
	id, _ := c.Cookie(sessionCookie)
	sess, created := ctl.sessions.GetOrCreate(id)
	if created || id != sess.ID() {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.ID(), 0, "/", "", false, true)
	}
	sess.Touch()
	return sess
}

func (ctl *Controller) Index(c *gin.Context) {
	sess := ctl.session(c)

	c.HTML(http.StatusOK, pageTemplate, pageData{
		Title:     ctl.cfg.Title,
		AboutURL:  ctl.cfg.AboutURL,
		Upload:    ctl.cfg.CaptureMode == CaptureUpload,
		Turns:     viewTurns(sess.Transcript()),
		SessionID: sess.ID(),
	})
}

func (ctl *Controller) Speak(c *gin.Context) {
	sess := ctl.session(c)

	source, err := ctl.source(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, speakResponse{State: domain.TurnIdle, Error: err.Error()})
		return
	}

	outcome, err := ctl.assistant.Turn(c.Request.Context(), application.TurnRequest{
		Session:  sess,
		Source:   source,
		Player:   ctl.clips,
		Observer: ctl.hub.Observer(sess.ID()),
	})

	resp := speakResponse{State: outcome.State, Diagnostic: outcome.Diagnostic}
	if outcome.Turn != nil {
		resp.Turn = &turnView{Turn: *outcome.Turn, ClipURL: clipURL(outcome.Turn.ClipID)}
	}

	if err != nil {
		ctl.logger.Warn("turn failed", "session", sess.ID(), "state", outcome.State, "error", err)
		c.Error(err)
		resp.Error = err.Error()
		c.JSON(statusFor(err), resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (ctl *Controller) source(c *gin.Context) (application.AudioSource, error) {
	if ctl.cfg.CaptureMode == CaptureMicrophone {
		return ctl.microphone, nil
	}

	header, err := c.FormFile("audio")
	if err != nil {
		return nil, fmt.Errorf("audio file is required")
	}
	if ctl.cfg.MaxUploadBytes > 0 && header.Size > ctl.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("audio file too large")
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	format, ok := audio.FormatFromName(header.Filename)
	if !ok {
		format = formatFromContentType(header.Header.Get("Content-Type"))
	}

	return audio.NewStaticSource(domain.Recording{Data: data, Format: format}), nil
}

// formatFromContentType falls back to webm, which is what MediaRecorder
// produces in most browsers.
func formatFromContentType(contentType string) domain.AudioFormat {
	switch {
	case strings.HasPrefix(contentType, "audio/wav"),
		strings.HasPrefix(contentType, "audio/x-wav"),
		strings.HasPrefix(contentType, "audio/wave"):
		return domain.FormatWAV
	case strings.HasPrefix(contentType, "audio/ogg"):
		return domain.FormatOgg
	case strings.HasPrefix(contentType, "audio/mpeg"):
		return domain.FormatMP3
	default:
		return domain.FormatWebM
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrTurnInProgress):
		return http.StatusConflict
	case errors.Is(err, application.ErrConversation), errors.Is(err, application.ErrSynthesis):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (ctl *Controller) Transcript(c *gin.Context) {
	sess := ctl.session(c)
	c.JSON(http.StatusOK, gin.H{"session": sess.ID(), "turns": viewTurns(sess.Transcript())})
}

func (ctl *Controller) History(c *gin.Context) {
	sess := ctl.session(c)

	messages := []domain.Message{}
	if conv, ok := sess.Conversation(); ok {
		messages = conv.History()
	}
	c.JSON(http.StatusOK, gin.H{"session": sess.ID(), "messages": messages})
}

func (ctl *Controller) Clip(c *gin.Context) {
	data, ok := ctl.clips.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "clip not found"})
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", data)
}

func (ctl *Controller) Events(c *gin.Context) {
	sess := ctl.session(c)
	ctl.hub.serve(c, sess.ID())
}

func (ctl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": ctl.sessions.Len(),
		"clips":    ctl.clips.Len(),
	})
}
