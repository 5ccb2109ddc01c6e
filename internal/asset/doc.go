// Package asset models resolved media files and the derived views built on
// them.
//
// An Asset is built once from a strict Declaration (produced by the metadata
// layer) plus the HTTP address it is served from. Construction validates the
// declaration and expands its sample declarations into SampleSpecs: the
// implicit `complete` segment first, then every other declared segment in
// order. Multi-part assets can be narrowed with a Selection parsed from a URI
// fragment such as `#2,4-6`.
//
// Values in this package are immutable after construction except for the
// keyboard shortcut, which the media cache assigns at most once.
package asset
