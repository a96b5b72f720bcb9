// Package messages defines the typed signaling messages and their
// MessagePack wire encoding.
//
// Every message is a map carrying a "type" field with one of the wire-type
// tags (server-hello, client-hello, client-auth) plus the fields of that
// variant. Parse dispatches on the tag; an unknown tag or a body that does
// not fit the declared type is a decode error.
package messages
