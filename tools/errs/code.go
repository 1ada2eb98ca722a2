package errs

// 业务错误码。1xxx=通用，14xx=资源，15xx=令牌。
const (
	ServerInternalError = 500

	ArgsError      = 1001 // 参数缺失/非法（如空 sender/content）
	DatabaseError  = 1002 // 持久化失败
	DuplicateError = 1003 // 唯一键冲突（用户名/邮箱已占用）

	RecordNotFoundError = 1404

	TokenExpiredError = 1501
	TokenInvalidError = 1502
)

// 预定义哨兵；调用方用 WrapMsg/WithDetail 派生实例。
var (
	ErrInternalServer = NewCodeError(ServerInternalError, "server internal error")
	ErrArgs           = NewCodeError(ArgsError, "args invalid")
	ErrDatabase       = NewCodeError(DatabaseError, "database error")
	ErrDuplicate      = NewCodeError(DuplicateError, "record already exists")
	ErrRecordNotFound = NewCodeError(RecordNotFoundError, "record not found")
	ErrTokenExpired   = NewCodeError(TokenExpiredError, "token expired")
	ErrTokenInvalid   = NewCodeError(TokenInvalidError, "token invalid")
)
