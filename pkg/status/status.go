package status

const (
	OK                    = "OK"
	CREATED               = "CREATED"
	NO_CONTENT            = "NO_CONTENT"
	BAD_REQUEST           = "BAD_REQUEST"
	UNAUTHORIZED          = "UNAUTHORIZED"
	FORBIDDEN             = "FORBIDDEN"
	NOT_FOUND             = "NOT_FOUND"
	CONFLICT              = "CONFLICT"
	UNPROCESSABLE_ENTITY  = "UNPROCESSABLE_ENTITY"
	INTERNAL_SERVER_ERROR = "INTERNAL_SERVER_ERROR"
	SERVICE_UNAVAILABLE   = "SERVICE_UNAVAILABLE"
)
