package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeTemplate      ErrorType = "TEMPLATE"
	TypeValidation    ErrorType = "VALIDATION"
	TypeCompose       ErrorType = "COMPOSE"
	TypeSubmission    ErrorType = "SUBMISSION"
	TypeVCS           ErrorType = "VCS"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if detail, ok := e.Context["detail"].(string); ok && detail != "" {
			msg += fmt.Sprintf(" - %s", detail)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by type and message so that errors derived with
// WithError/WithContext still satisfy errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Export a personal access token: export GITHUB_PAT_TOKEN=<token>\nOr configure a GitHub App: ticket config init --app")

	ErrConfigMissing = NewAppError(TypeConfiguration, "Configuration is missing", nil).
				WithSuggestion("Initialize configuration: ticket config init")

	ErrRepositoryMissing = NewAppError(TypeConfiguration, "Target repository is not configured", nil).
				WithSuggestion("Set it with: ticket config init --owner <org> --repo <name>")

	ErrPrivateKeyInvalid = NewAppError(TypeConfiguration, "GitHub App private key could not be loaded", nil).
				WithSuggestion("Check auth.private_key_path points to the PEM file downloaded from the App settings")
)

// Template errors
var (
	ErrTemplateNotFound = NewAppError(TypeTemplate, "template not found", nil).
				WithSuggestion("List available templates: ticket template list")

	ErrTemplateInvalid = NewAppError(TypeTemplate, "template could not be parsed", nil).
				WithSuggestion("Fix the template file and try again")

	ErrTemplatesExist = NewAppError(TypeTemplate, "templates already exist", nil).
				WithSuggestion("Overwrite them with: ticket template init --force")
)

// Form errors
var (
	ErrRequiredFieldsMissing = NewAppError(TypeValidation, "required fields are missing or invalid", nil).
					WithSuggestion("Fill in every field listed above and submit again")

	ErrUnknownField = NewAppError(TypeValidation, "field is not part of the template", nil)

	ErrInvalidProjectRef = NewAppError(TypeCompose, "template declares an invalid project reference", nil).
				WithSuggestion("Project references must end in a project number, e.g. childrens-bti/7")
)

// GitHub/VCS specific errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository owner/name and that the token can access it")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("The token needs 'issues: write' (and 'projects: write' for project association)")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes before submitting again")

	ErrGitHubValidation = NewAppError(TypeVCS, "GitHub rejected the issue", nil).
				WithSuggestion("Check that the labels exist and the title is not too long")

	ErrInstallationToken = NewAppError(TypeVCS, "failed to obtain GitHub App installation token", nil).
				WithSuggestion("Check app_id and installation_id in the configuration")
)
