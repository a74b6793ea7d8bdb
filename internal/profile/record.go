// Package profile implements the per-field optimistic-edit layer: the fixed
// profile field set, the field edit controller state machine, and the sync
// orchestrator that binds field subscriptions to the authenticated identity.
package profile

// The fixed profile field set. Email and AccountDateCreation are immutable
// after creation; that policy is enforced by the backend's access rules, not
// by this library.
const (
	FieldFirstName           = "FirstName"
	FieldMiddleName          = "MiddleName"
	FieldLastName            = "LastName"
	FieldBirthDate           = "BirthDate"
	FieldEmail               = "Email"
	FieldAccountDateCreation = "AccountDateCreation"
)

// Fields lists every profile field in display order.
var Fields = []string{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldBirthDate,
	FieldEmail,
	FieldAccountDateCreation,
}

// EditableFields lists the fields a user may change after registration.
var EditableFields = []string{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldBirthDate,
}

// RecordPath addresses the profile document for one identity.
func RecordPath(identityID string) string {
	return "users/" + identityID
}
