package models

// PageView is a write-only analytics event; only the admin dashboard
// aggregation ever reads it back.
type PageView struct {
	ID          string `json:"id,omitempty" bson:"id,omitempty"`
	Page        string `json:"page" bson:"page"`
	Path        string `json:"path" bson:"path"`
	Referrer    string `json:"referrer" bson:"referrer"`
	UserAgent   string `json:"user_agent" bson:"user_agent"`
	SessionID   string `json:"session_id" bson:"session_id"`
	CreatedDate string `json:"created_date,omitempty" bson:"created_date,omitempty"`
}

// Normalize applies the tracker's defaults for missing fields.
func (v *PageView) Normalize() {
	if v.Page == "" {
		v.Page = "Unknown"
	}
	if v.Referrer == "" {
		v.Referrer = "Direct"
	}
}
