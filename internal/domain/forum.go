package domain

import "time"

// ForumCategory groups ideas on the discussion board.
type ForumCategory string

const (
	CategoryGeneral        ForumCategory = "general"
	CategoryInfrastructure ForumCategory = "infrastructure"
	CategoryEnvironment    ForumCategory = "environment"
	CategoryServices       ForumCategory = "services"
)

// Valid reports whether c is one of the board's categories.
func (c ForumCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryInfrastructure, CategoryEnvironment, CategoryServices:
		return true
	}
	return false
}

// Comment is an immutable reply within an idea.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Avatar    string    `json:"avatar"`
}

// ForumIdea is a discussion thread. Likes moves with IsLiked and Replies mirrors len(Comments).
type ForumIdea struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Author      string        `json:"author"`
	Avatar      string        `json:"avatar"`
	Timestamp   time.Time     `json:"timestamp"`
	Category    ForumCategory `json:"category"`
	Likes       int           `json:"likes"`
	Replies     int           `json:"replies"`
	Views       int           `json:"views"`
	IsLiked     bool          `json:"isLiked"`
	Comments    []Comment     `json:"comments"`
	Image       string        `json:"image,omitempty"`
}

// NewIdeaInput describes a submission to the board.
type NewIdeaInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Author      string        `json:"author"`
	Avatar      string        `json:"avatar"`
	Category    ForumCategory `json:"category"`
	Image       string        `json:"image,omitempty"`
}

// NewCommentInput describes a reply to an idea.
type NewCommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Avatar string `json:"avatar"`
}
