package domain

import "time"

// ActivityLog records a committed intent.
type ActivityLog struct {
	ID         string                 `json:"id"`
	SubjectID  string                 `json:"subjectId"`
	Op         string                 `json:"op"`
	TargetType string                 `json:"targetType"`
	TargetID   string                 `json:"targetId"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}
