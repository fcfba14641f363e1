package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// TemplateError renders a message with a link back.
	TemplateError = "error"

	// LocalsCurrentUser is the fiber.Locals key of the logged in models.User.
	LocalsCurrentUser = "CurrentUser"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
