package mongodb

// Collection names used by the storage adapters.
const (
	usersCollection    = "users"
	accountsCollection = "accounts"
	tokensCollection   = "verification_tokens"
	sessionsCollection = "sessions"
	notesCollection    = "work_notes"
)
