package handler

const (
	errInternalServer   = "Internal server error"
	errUnauthorized     = "Invalid authentication credentials"
	errUsernameTaken    = "Username already exists"
	errBadCredentials   = "Incorrect username or password"
	errDocumentNotFound = "No saved data found for this user"
	errSampleNotFound   = "Sample data file not found"
	errInvalidData      = "data must be a JSON array of objects"
)
