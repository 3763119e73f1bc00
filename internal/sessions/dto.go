package sessions

import (
	"encoding/json"
	"time"

	"resume-studio/internal/refimage"
	"resume-studio/resume/model"
	"resume-studio/resume/theme"
)

// SessionResponse is the outward-facing representation of a session.
type SessionResponse struct {
	SessionID      string           `json:"sessionId"`
	Data           model.ResumeData `json:"data"`
	ThemeID        theme.ID         `json:"themeId"`
	Theme          theme.Theme      `json:"theme"`
	ReferenceImage *refimage.Ref    `json:"referenceImage,omitempty"`
	Message        string           `json:"message"`
	Generating     bool             `json:"generating"`
	Revision       uint64           `json:"revision"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func toResponse(s Session) SessionResponse {
	th, ok := theme.Lookup(s.ThemeID)
	if !ok {
		th = theme.Default()
	}
	return SessionResponse{
		SessionID:      s.ID,
		Data:           s.Data,
		ThemeID:        th.ID,
		Theme:          th,
		ReferenceImage: s.ReferenceImage,
		Message:        s.Message,
		Generating:     s.Generating,
		Revision:       s.Seq,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type selectThemeRequest struct {
	ThemeID string `json:"themeId"`
}

type generateRequest struct {
	Text string `json:"text"`
}

type referenceImageRequest struct {
	DataURL  string `json:"dataUrl"`
	FileName string `json:"fileName"`
}

type renderRequest struct {
	Data    json.RawMessage `json:"data"`
	ThemeID string          `json:"themeId"`
}
