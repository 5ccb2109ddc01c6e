// Package mediaindex scans a media directory for declaration sidecars and
// answers exact-match queries by ref or uuid, the way the media server does
// for remote clients.
package mediaindex
