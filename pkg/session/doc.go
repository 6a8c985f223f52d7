/*
Package session coordinates concurrent access to layout documents.

A Manager owns one editor engine per layout key and serializes every
operation on that key, so mutations arriving from multiple goroutines
(HTTP handlers, MCP tool calls) apply one at a time against a consistent
document. Local locks are reference counted and garbage collected; an
optional distributed locker extends the same guarantee across replicas.
*/
package session
