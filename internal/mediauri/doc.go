// Package mediauri parses the two address schemes media assets are known by.
//
// An asset is addressed either by its human-chosen reference
// (`ref:Fuer-Elise`) or by its stable identifier
// (`uuid:c262fe9b-c705-43fd-a5d4-4bb38178d9e7`). Both forms may carry a
// fragment after `#` that names a sample (`#complete`) or a multi-part
// selection (`#2,4-6`).
package mediauri
