package errors

import (
	"errors"
	"net/http"
)

// Not found.
var (
	// ErrUserNotFound is returned when a user row is absent.
	ErrUserNotFound = errors.New("user not found")
	// ErrCredentialNotFound is returned when the user has no credential.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrChatNotFound is returned when a chat room is absent.
	ErrChatNotFound = errors.New("chat not found")
	// ErrMessageNotFound is returned when a chat message is absent.
	ErrMessageNotFound = errors.New("message not found")
	// ErrInvalidVerificationToken is returned when no user matches a verification token.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	// ErrInvalidResetToken is returned when no user matches a password reset token.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrUserNotInChat is returned when the target user is not a chat member.
	ErrUserNotInChat = errors.New("user not in chat")
)

// Conflict.
var (
	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when a credential username is already used.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrAlreadyVerified is returned when the email was verified before.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrAlreadyApproved is returned when approving an approved user.
	ErrAlreadyApproved = errors.New("user is already approved")
	// ErrAlreadyInChat is returned when adding a user who is already a member.
	ErrAlreadyInChat = errors.New("user already in chat")
	// ErrSamePassword is returned when the new password equals the current one.
	ErrSamePassword = errors.New("new password must be different from current password")
)

// Unauthorized.
var (
	// ErrInvalidCredentials is returned for unknown email, missing credential
	// or wrong password. One message on purpose, to prevent email enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongPassword is returned when the current password does not verify.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Forbidden.
var (
	// ErrEmailNotVerified is returned when the flow requires a verified email.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrNotApproved is returned when the account awaits admin approval.
	ErrNotApproved = errors.New("account is pending administrator approval")
	// ErrAdminOnly is returned when a non-admin calls an admin operation.
	ErrAdminOnly = errors.New("administrator privileges required")
	// ErrNotSelf is returned when a user touches another user's profile.
	ErrNotSelf = errors.New("you can only modify your own account")
	// ErrNotChatMember is returned when posting into a chat without membership.
	ErrNotChatMember = errors.New("user is not a member of this chat")
	// ErrNotMessageSender is returned when mutating someone else's message.
	ErrNotMessageSender = errors.New("only the message sender can modify it")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var statusByErr = map[error]*HTTPError{
	ErrUserNotFound:             {http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND"},
	ErrCredentialNotFound:       {http.StatusNotFound, ErrCredentialNotFound.Error(), "CREDENTIAL_NOT_FOUND"},
	ErrChatNotFound:             {http.StatusNotFound, ErrChatNotFound.Error(), "CHAT_NOT_FOUND"},
	ErrMessageNotFound:          {http.StatusNotFound, ErrMessageNotFound.Error(), "MESSAGE_NOT_FOUND"},
	ErrInvalidVerificationToken: {http.StatusNotFound, ErrInvalidVerificationToken.Error(), "INVALID_VERIFICATION_TOKEN"},
	ErrInvalidResetToken:        {http.StatusNotFound, ErrInvalidResetToken.Error(), "INVALID_RESET_TOKEN"},
	ErrUserNotInChat:            {http.StatusNotFound, ErrUserNotInChat.Error(), "USER_NOT_IN_CHAT"},

	ErrEmailTaken:      {http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN"},
	ErrUsernameTaken:   {http.StatusConflict, ErrUsernameTaken.Error(), "USERNAME_TAKEN"},
	ErrAlreadyVerified: {http.StatusConflict, ErrAlreadyVerified.Error(), "ALREADY_VERIFIED"},
	ErrAlreadyApproved: {http.StatusConflict, ErrAlreadyApproved.Error(), "ALREADY_APPROVED"},
	ErrAlreadyInChat:   {http.StatusConflict, ErrAlreadyInChat.Error(), "ALREADY_IN_CHAT"},
	ErrSamePassword:    {http.StatusConflict, ErrSamePassword.Error(), "SAME_PASSWORD"},

	ErrInvalidCredentials:  {http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS"},
	ErrWrongPassword:       {http.StatusUnauthorized, ErrWrongPassword.Error(), "WRONG_PASSWORD"},
	ErrInvalidRefreshToken: {http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN"},

	ErrEmailNotVerified: {http.StatusForbidden, ErrEmailNotVerified.Error(), "EMAIL_NOT_VERIFIED"},
	ErrNotApproved:      {http.StatusForbidden, ErrNotApproved.Error(), "NOT_APPROVED"},
	ErrAdminOnly:        {http.StatusForbidden, ErrAdminOnly.Error(), "ADMIN_ONLY"},
	ErrNotSelf:          {http.StatusForbidden, ErrNotSelf.Error(), "NOT_SELF"},
	ErrNotChatMember:    {http.StatusForbidden, ErrNotChatMember.Error(), "NOT_CHAT_MEMBER"},
	ErrNotMessageSender: {http.StatusForbidden, ErrNotMessageSender.Error(), "NOT_MESSAGE_SENDER"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse to
// a generic 500 so internals never leak to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	for sentinel, httpErr := range statusByErr {
		if errors.Is(err, sentinel) {
			return httpErr
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
