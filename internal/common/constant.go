package common

// Keys used in the persistent key/value store. Each store owns its key.
const (
	SessionKey       = "session"
	NotificationsKey = "notifications"
)

// SharedPassword is the password every seeded identity accepts.
const SharedPassword = "password"
