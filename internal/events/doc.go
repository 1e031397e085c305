// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package events implements the background interaction pipeline over NATS
JetStream, driven by Watermill.

Every logged interaction is published to the `interaction.logged` subject
as a fire-and-forget side effect of the write path. A durable queue-group
subscriber feeds the Watermill router, which runs two handlers:

  - summary-refresher: applies the refresh guard for the interaction's
    user, so summaries converge shortly after activity without coupling
    recomputation to the request path
  - feed-forwarder: pushes the interaction to the WebSocket hub for live
    clients

# Key Components

  - EmbeddedServer: in-process NATS server with JetStream, the default
    deployment mode
  - StreamInitializer: idempotent stream provisioning before publishers
    and subscribers start
  - Publisher: Watermill NATS publisher behind a circuit breaker so a
    failing broker cannot stall interaction logging
  - Subscriber: durable JetStream consumption with queue-group balancing
  - Router: retry, panic recovery, and poison-queue middleware around the
    handlers; runs as a supervised service

# Delivery Semantics

Publishing sets Nats-Msg-Id from the event id, so JetStream deduplicates
redeliveries within the duplicate window. Handlers are idempotent (the
refresh guard makes repeated refreshes no-ops), so at-least-once delivery
is safe.
*/
package events
