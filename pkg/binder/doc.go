// Package binder decodes HTTP request bodies into typed request structs for
// the handler package.
//
// JSON returns a binder that checks the Content-Type, enforces a body size
// limit, decodes strictly by default and trims string fields:
//
//	bind := binder.JSON(binder.WithMaxSize(50<<20), binder.AllowUnknownFields())
//	var req GenerateRequest
//	if err := bind(r, &req); err != nil {
//	    // errors.Is(err, binder.ErrBodyTooLarge), binder.ErrFailedToParseJSON, ...
//	}
package binder
