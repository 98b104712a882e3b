package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	AuthKey        = "authenticated"
	KeyUserID      = "user_id"
	KeyDisplayName = "display_name"
	KeyIsAdmin     = "isAdmin"
)
