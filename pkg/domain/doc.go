/*
Package domain contains the core model for stream-definition schemas.

It defines the static, parse-time entities of a stream file — function,
predicate, and stream declarations with their domain and certified
conditions — plus the runtime vocabulary the interface contract needs:
opaque Objects, ground Facts, and parameter Bindings. This package is kept
pure and free of I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Definition: a parsed (define (stream <name>) ...) unit, immutable once built.
  - StreamDecl: a generator schema (inputs, domain, outputs, certified).
  - FunctionDecl / PredicateDecl: numeric and boolean external declarations.
  - Condition: a conjunction of atoms guarding or certified by a declaration.
  - Object / Fact / Binding: runtime values, ground atoms, and parameter maps.
*/
package domain
