package domain

// Users is the closed set of user identifiers fixed at deployment.
// Membership is case-sensitive.
type Users []string

// Contains reports whether name is exactly one of the configured users.
func (u Users) Contains(name string) bool {
	for _, n := range u {
		if n == name {
			return true
		}
	}
	return false
}
