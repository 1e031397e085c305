// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package websocket provides the live interaction feed for connected clients.

It implements a hub-and-spoke pattern over gorilla/websocket: the Hub
manages client connections and fans out interaction events arriving from
the event router; each Client runs a read pump (handles pings and
disconnects) and a write pump (delivers feed messages with deadlines).

Key Components:

  - Hub: connection registry and broadcaster; runs as a supervised service
    and implements the event router's Broadcaster interface
  - Client: one WebSocket connection with its two pump goroutines
  - Message: typed envelope for feed and control messages

Slow clients are disconnected rather than buffered indefinitely; the per
client send queue is bounded and an overflow drops the connection.
*/
package websocket
