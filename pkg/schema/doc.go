// Package schema provides optional value typing for generator bindings.
//
// Stream parameters are untyped at the language level; generators may still
// declare what kind of payload each output carries (a float slice for a
// pose, an opaque trajectory handle) so the registry can reject malformed
// tuples at the boundary instead of deep inside a consumer.
package schema
