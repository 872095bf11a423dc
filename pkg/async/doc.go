// Package async runs functions in goroutines and hands back typed futures.
//
//	photo := async.Async(ctx, spec.Photo, decode)
//	sig := async.Async(ctx, spec.Signature, decode)
//	for _, r := range async.Settle(photo, sig) {
//		// r.Value, r.Err
//	}
//
// A context canceled before the goroutine starts completes the future with the
// context error without calling the function.
package async
