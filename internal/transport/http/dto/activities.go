package dto

type CreateActivityReq struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	UserID   string   `json:"userId"`
	EventID  string   `json:"eventId,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type UpdateActivityReq struct {
	Message  *string   `json:"message,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	IsPinned *bool     `json:"isPinned,omitempty"`
}

type DeleteActivityReq struct {
	UserID string `json:"userId"`
}

type LikeReq struct {
	UserID string `json:"userId"`
}

type PinReq struct {
	IsPinned *bool `json:"isPinned"`
}

type ReplyReq struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type DeleteReplyReq struct {
	UserID string `json:"userId"`
}
