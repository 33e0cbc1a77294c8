package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// ActivityRepository defines persistence for the recent activity log
type ActivityRepository interface {
	// Put appends an activity record
	Put(ctx context.Context, record *model.ActivityRecord) (*model.ActivityRecord, error)

	// Recent returns up to limit records of the user ordered by creation
	// time descending. A non-empty conversationID narrows the result to
	// that conversation.
	Recent(ctx context.Context, userID string, conversationID string, limit int) ([]*model.ActivityRecord, error)
}
