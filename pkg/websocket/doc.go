// Package websocket is a lightweight client-only implementation of the
// WebSocket protocol (RFC 6455).
//
// It focuses on continuous asynchronous reading of text/binary
// messages, and enables occasional writing. Dial establishes one
// connection at a time; callers that need reconnection or connection
// pooling own that policy themselves, layered on top of Conn.
//
// Design goals: reliability, maintainability, and efficiency, with
// idiomatic, minimalistic, and modern code patterns throughout.
//
// WebSocket [extensions] and [subprotocols] are not supported yet.
//
// [extensions]: https://www.iana.org/assignments/websocket/websocket.xhtml#extension-name
// [subprotocols]: https://www.iana.org/assignments/websocket/websocket.xhtml#subprotocol-name
package websocket
