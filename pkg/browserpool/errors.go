package browserpool

import "errors"

var (
	ErrPoolClosed     = errors.New("browser pool is shut down")
	ErrLaunch         = errors.New("failed to launch browser")
	ErrBrowserClosed  = errors.New("browser is not running")
	ErrCapture        = errors.New("failed to capture page")
	ErrSettleTimeout  = errors.New("page content did not settle in time")
	ErrInvalidRequest = errors.New("invalid capture request")
)
