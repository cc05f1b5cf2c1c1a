package domain

import "time"

// BlogPost is locally authored content keyed by unique slug.
type BlogPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"imageUrl"`
	Published   bool      `json:"published"`
	PublishDate time.Time `json:"publishDate"`
}

// ExternalPost is a syndicated article cached from a remote feed, keyed by
// canonical link. FetchedAt records when the row was first ingested and is
// preserved across repeat ingestions of the same link.
type ExternalPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PubDate     time.Time `json:"pubDate"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Source      string    `json:"source"`
	Cached      bool      `json:"cached"`
	FetchedAt   time.Time `json:"fetchedAt"`
}
