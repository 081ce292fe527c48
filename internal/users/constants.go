package users

const (
	// Pre-computed bcrypt hash (cost 12) used to equalize timing on failed
	// lookups. The actual plaintext is irrelevant.
	dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

	birthdayLayout = "2006-01-02"

	msgUserNotFound        = "Didn't find the user you were looking for."
	msgWrongPassword       = "Wrong password."
	msgEmailAlreadyExists  = "A user with this email already exists."
	msgPasswordProcessFail = "Something went wrong while processing the password."
	msgGenerateTokenFail   = "Something went wrong while generating the token."
	msgInvalidBirthday     = "Birthday must be formatted as YYYY-MM-DD."
	msgItemIDRequired      = "An item id is required."
	msgAdminOnlyStrikes    = "Only admins can update everything about users."
	msgUsersInteract       = "Only connected users can interact with users."
	msgUserDeleted         = "User deleted."
)
