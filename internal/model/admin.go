package model

// Admin represents a row in the `admin` table.  There is normally exactly
// one, created at bootstrap; no endpoint updates or deletes it.
//
// Fields:
//
//	ID           – primary key identifier.
//	Username     – unique login name.
//	PasswordHash – bcrypt hash; never serialised.
type Admin struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
