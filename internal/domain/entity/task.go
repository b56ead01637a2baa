package entity

// WeeklyTask is one derived job on the weekly list. Tasks are computed from
// active varieties and preferences; they are never stored.
type WeeklyTask struct {
	Day         string `json:"day"`
	Kind        string `json:"kind"` // water or feed
	VarietyName string `json:"variety_name"`
	Detail      string `json:"detail,omitempty"`
}
