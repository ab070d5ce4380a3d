package models

// ModerationStatus is the moderation outcome for an uploaded image.
type ModerationStatus string

const (
	ModerationApproved ModerationStatus = "APPROVED"
	ModerationRejected ModerationStatus = "REJECTED"
)

// ModerationLabel captures a single Rekognition moderation label.
type ModerationLabel struct {
	Name       string  `json:"name"`
	ParentName string  `json:"parentName,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ModerationDecision is the server-side decision applied to image uploads.
type ModerationDecision struct {
	Status        ModerationStatus  `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	Labels        []ModerationLabel `json:"labels,omitempty"`
	MaxConfidence float64           `json:"maxConfidence,omitempty"`
}
