package entity

import "time"

// Support is one signature under a petition. Name and avatar are snapshots of
// the supporter taken at support time; a later rename never rewrites them.
type Support struct {
	ID        string `json:"_id"`
	UserID    string `json:"user"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

// Comment carries the same denormalized author snapshot as Support.
type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Avatar    string    `json:"avatar"`
	WrittenAt time.Time `json:"writtenAt"`
}

// Petition is an aggregate root: the document plus its supports and comments
// are loaded and stored as one unit. Supports hold at most one entry per user;
// comments are unbounded. Both are kept newest-first.
type Petition struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"user"`
	Subject    string    `json:"subject"`
	Categories []string  `json:"categories"`
	Content    string    `json:"content"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	Supports   []Support `json:"supports"`
	Comments   []Comment `json:"comments"`
	WrittenAt  time.Time `json:"writtenAt"`
}

// SupportedBy reports whether the user already has a support entry.
func (p *Petition) SupportedBy(userID string) bool {
	for _, s := range p.Supports {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the comment with the given id, or nil.
func (p *Petition) CommentByID(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
