package domain

// EnvironmentSnapshot holds the live environment details embedded in the system prompt.
type EnvironmentSnapshot struct {
	OS         string
	Shell      string
	Terminal   string
	User       string
	WorkingDir string
}
