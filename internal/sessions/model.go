package sessions

import (
	"time"

	"resume-studio/internal/refimage"
	"resume-studio/resume/model"
	"resume-studio/resume/theme"
)

// Session is one user's editing state. It lives in memory only.
type Session struct {
	ID             string
	Data           model.ResumeData
	ThemeID        theme.ID
	ReferenceImage *refimage.Ref
	Message        string
	Generating     bool
	// Seq increases on every generation start and reset. A generation result
	// is applied only while Seq still equals the value it started with.
	Seq       uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	out := s
	out.Data = s.Data.Clone()
	if s.ReferenceImage != nil {
		ref := *s.ReferenceImage
		out.ReferenceImage = &ref
	}
	return out
}
