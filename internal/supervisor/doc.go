// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived services of the process under a
suture v4 tree.

	RootSupervisor ("cinematch")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── NATSServerService (if nats.embedded_server)
	│   └── ConsumerService (if ingest is active)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing consumer is restarted with backoff without touching the HTTP
server, so recommendations keep being served while messaging recovers.
Supervisor events are logged through sutureslog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewConsumerService(components.Consumer))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Concrete service adapters live in the services subpackage.
*/
package supervisor
