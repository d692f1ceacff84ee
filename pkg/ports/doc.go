// Package ports defines the boundary interfaces between the stream-schema
// core and its adapters (fact storage, generator procedures). Following
// Hexagonal Architecture, the core depends only on these interfaces; the
// concrete backends live under pkg/adapters.
package ports
