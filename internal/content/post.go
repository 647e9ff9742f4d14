package content

import "time"

// Post is a single scraped post with its raw counters
type Post struct {
	ID         string    `json:"id" yaml:"id"`
	Hook       string    `json:"hook" yaml:"hook"`
	Caption    string    `json:"caption" yaml:"caption"`
	Views      uint64    `json:"views" yaml:"views"`
	Likes      uint64    `json:"likes" yaml:"likes"`
	UploadDate time.Time `json:"upload_date" yaml:"upload_date"`
	Username   string    `json:"username" yaml:"username"`
	Comments   *uint64   `json:"comments,omitempty" yaml:"comments,omitempty"`
	Shares     *uint64   `json:"shares,omitempty" yaml:"shares,omitempty"`
}

// NormalizedPost is a Post with its derived engagement rate (0-100)
type NormalizedPost struct {
	Post
	EngagementRate float64 `json:"engagement_rate"`
}
