// Package ws serves the catalog command stream over WebSocket.
//
// Clients send command envelopes ({"id", "command", "args"}) and receive one
// reply frame per envelope, in order. A "ping" command is answered with a
// pong frame.
//
// Frame types (Server → Client):
//   - system: stream opened, carries the stream id
//   - reply: command outcome
//   - error: the message was not an envelope
//   - pong: keep-alive answer
//
// Example Usage:
//
//	handler := ws.NewHandler(dispatcher, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
