package domain

// Role is carried in access tokens issued by the identity provider.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)
