// Package validator provides small declarative validation rules.
//
// Each exported rule constructor returns a Rule pairing a Check function with
// the ValidationError reported on failure. Apply evaluates a list of rules and
// aggregates failures into ValidationErrors, which satisfies error and can be
// recovered from wrapped errors with Extract.
//
//	err := validator.Apply(
//		validator.RequiredString("message", msg),
//		validator.MaxRunes("message", msg, 200),
//		validator.ValidEmail("email", email),
//	)
package validator
