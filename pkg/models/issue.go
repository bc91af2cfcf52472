package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoryTypePrefix marks the label that carries an issue's story type, e.g. "(Type) Bug".
const StoryTypePrefix = "(Type) "

// Issue represents a GitHub issue with its metadata
type Issue struct {
	Org       string    `json:"org"`
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"` // "open" or "closed"
	Labels    []string  `json:"labels"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoryType returns the first "(Type) " label with the prefix stripped, or "" when there is none.
func (i *Issue) StoryType() string {
	for _, l := range i.Labels {
		if strings.HasPrefix(l, StoryTypePrefix) {
			return strings.TrimPrefix(l, StoryTypePrefix)
		}
	}
	return ""
}

// BuildUUID generates a deterministic UUID from a CI build's identity
func BuildUUID(job string, number int) string {
	data := fmt.Sprintf("%s#%d", job, number)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(data)).String()
}
