package domain

// RequestContext carries the authenticated admin for the current request.
type RequestContext struct {
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId"`
}
