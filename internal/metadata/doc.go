// Package metadata decodes media declaration files into asset declarations.
//
// Every media file `Name.ext` may carry a YAML sidecar `Name.ext.yml`
// holding its ref, uuid, descriptive fields, root-level timing for the
// complete sample and a `samples` list. Decoding is strict: unknown shapes
// fail with ErrInvalidDeclaration before anything reaches the caches.
package metadata
