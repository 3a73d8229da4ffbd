package activity

import (
	"context"
	"log"
)

// Recorder adapts the feed to the project service's event hook. Failures
// are logged and never propagate into the request that triggered them.
type Recorder struct {
	feed *FeedRepo
}

func NewRecorder(feed *FeedRepo) *Recorder {
	return &Recorder{feed: feed}
}

func (r *Recorder) Record(ctx context.Context, userID, projectID, action, title string) {
	if r == nil || r.feed == nil {
		return
	}
	err := r.feed.Push(ctx, Entry{
		UserID:    userID,
		ProjectID: projectID,
		Action:    action,
		Title:     title,
	})
	if err != nil {
		log.Printf("[activity] record %s: %v", action, err)
	}
}
