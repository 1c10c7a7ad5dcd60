package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_EXIST             = "error.exist"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	ERROR_LOGIN_ACCOUNT_INCORRECT = "error.login.account.incorrect"
	ERROR_EMAIL_ALREADY_REGISTED  = "error.email_has_already_registed"

	// invitation resolver failure taxonomy
	ERROR_EMAIL_INVALID                 = "error.invitation.email_invalid"
	ERROR_JOB_NOT_FOUND                 = "error.invitation.job_not_found"
	ERROR_INVALID_PROJECT_NAME          = "error.invitation.invalid_project_name"
	ERROR_INVALID_MODEL_PERMISSION_ROLE = "error.invitation.invalid_model_permission_role"
	ERROR_INVALID_MODEL_ID              = "error.invitation.invalid_model_id"
	ERROR_USER_NOT_FOUND                = "error.invitation.user_not_found"

	ERROR_INVALID_TOKEN   = "error.invalid.token"
	ERROR_INVALID_ACCOUNT = "error.invalid.account"
)
