package commands

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
)

// Success messages
const (
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgInitCancelled            = "Init cancelled."
	MsgConfigSaved              = "Configuration saved"
)
