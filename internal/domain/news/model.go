package news

import (
	"fmt"
	"time"
)

// Article is an editorial piece attached to the content feed.
type Article struct {
	ID          string
	Title       string
	Body        string
	LeagueID    string
	AuthorID    string
	Tags        []string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

func (a Article) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("article id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("article title is required")
	}
	if a.Body == "" {
		return fmt.Errorf("article body is required")
	}

	return nil
}
