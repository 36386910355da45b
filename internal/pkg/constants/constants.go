package constants

const (
	CookieKeySecretToken = "admin_token"
	HeaderAuthorization  = "Authorization"

	CtxKeyRequestID = "request_id"
)

// viper keys
const (
	ViperSecretKey = "admin.secret"

	ViperServerAddr        = "server.addr"
	ViperServerOrigins     = "server.allow_origins"
	ViperServerUploadLimit = "server.upload_limit"

	ViperLogLevel       = "log.level"
	ViperLogDevelopment = "log.development"

	ViperDatasetSource = "dataset.source"
	ViperDatasetPath   = "dataset.path"
	ViperDatasetURL    = "dataset.url"
	ViperDatasetDSN    = "dataset.dsn"

	ViperGithubToken   = "github.token"
	ViperGithubRepo    = "github.repo"
	ViperGithubPath    = "github.path"
	ViperGithubBranch  = "github.branch"
	ViperGithubBaseURL = "github.base_url"
	ViperGithubMessage = "github.commit_message"
)
