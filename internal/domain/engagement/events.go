package engagement

import "time"

const (
	EventProductViewed  = "ProductViewed"
	EventProductLiked   = "ProductLiked"
	EventProductUnliked = "ProductUnliked"
)

type ProductViewed struct {
	ProductID string    `json:"product_id"`
	ViewerID  string    `json:"viewer_id,omitempty"` // empty for anonymous views
	ViewedAt  time.Time `json:"viewed_at"`
}

type ProductLiked struct {
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	LikedAt   time.Time `json:"liked_at"`
}

type ProductUnliked struct {
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UnlikedAt time.Time `json:"unliked_at"`
}
