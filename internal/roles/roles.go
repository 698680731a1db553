package roles

import (
	"context"
	"time"

	"github.com/almajalla/majalla/internal/auth"
)

// Assignment is one row of the user -> role relation. (user_id, role) is the
// natural key but nothing enforces uniqueness; duplicates are tolerated and
// read paths de-duplicate.
type Assignment struct {
	UserID    int64     `json:"user_id"`
	Role      auth.Role `json:"role"`
	GrantedBy *int64    `json:"granted_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RepositoryAPI interface {
	Insert(ctx context.Context, userID int64, role auth.Role, grantedBy *int64) error
	// DeleteAll removes every matching (user_id, role) row, duplicates included.
	DeleteAll(ctx context.Context, userID int64, role auth.Role) error
	RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error)
}

// UserResolver maps an email to a user id. The grant path requires the
// target to already hold an account.
type UserResolver interface {
	IDByEmail(ctx context.Context, email string) (int64, error)
}

// ActivityRecorder is the fire-and-forget activity sink.
type ActivityRecorder interface {
	Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{})
}

// Dedupe collapses duplicate role rows for presentation, preserving the
// first-seen order.
func Dedupe(in []auth.Role) []auth.Role {
	seen := make(map[auth.Role]bool, len(in))
	out := make([]auth.Role, 0, len(in))
	for _, r := range in {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
