package yup

// Package yup provides:
//
// - Composable runtime value schemas (Mixed/String/Number/Bool/Object) with
//   cast, validate, and describe pipelines
// - Immutable-by-convention nodes: every mutator clones, sealed schemas are
//   safe to share across goroutines
// - Deferred references (Ref) into sibling fields and ambient context, and
//   conditional schema rewrites via When/WhenFunc
// - A stable error model via ValidationError (path, rule type, rendered
//   message, structured params, flattened Inner aggregates)
//
// Design policy:
// - Keep only public APIs in the root package; put path walking and value
//   printing under internal/.
// - Place message templates under locale/ and the CLI under cmd/yup.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := yup.Object(map[string]*yup.Schema{
//		"name": yup.String().Required(),
//		"age":  yup.Number().Default(0),
//	})
//	v, err := s.Validate(ctx, doc, yup.ValidateOpt{})
//	out, err := s.Cast(doc, yup.CastOpt{StripUnknown: true})
