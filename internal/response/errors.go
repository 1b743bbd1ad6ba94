package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrQuizNotFound         ErrCode = "QUIZ_NOT_FOUND"
	ErrSessionNotFound      ErrCode = "SESSION_NOT_FOUND"
	ErrConversationNotFound ErrCode = "CONVERSATION_NOT_FOUND"

	// ─── Quiz ──────────────────────────────────────────────────────────
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrNoSelection       ErrCode = "NO_SELECTION"
	ErrOptionOutOfRange  ErrCode = "OPTION_OUT_OF_RANGE"

	// ─── Conversation ──────────────────────────────────────────────────
	ErrEmptyMessage       ErrCode = "EMPTY_MESSAGE"
	ErrConversationClosed ErrCode = "CONVERSATION_CLOSED"

	// ─── Reader ────────────────────────────────────────────────────────
	ErrUnknownCommand ErrCode = "UNKNOWN_COMMAND"
	ErrInvalidValue   ErrCode = "INVALID_VALUE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrQuizNotFound:
		return "Quiz not found."
	case ErrSessionNotFound:
		return "Quiz session not found or expired."
	case ErrConversationNotFound:
		return "Conversation not found or expired."

	// ─── Quiz ──────────────────────────────────────────────────────────
	case ErrInvalidTransition:
		return "That action is not available at this point in the quiz."
	case ErrNoSelection:
		return "Select an answer before submitting."
	case ErrOptionOutOfRange:
		return "The selected option does not exist."

	// ─── Conversation ──────────────────────────────────────────────────
	case ErrEmptyMessage:
		return "Message must not be empty."
	case ErrConversationClosed:
		return "This conversation has ended."

	// ─── Reader ────────────────────────────────────────────────────────
	case ErrUnknownCommand:
		return "Unknown reader command."
	case ErrInvalidValue:
		return "Invalid value for this reader command."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
