// Package server runs the edge HTTP listener: production timeouts, optional
// TLS, graceful shutdown and an errgroup-friendly Run.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Without TLS the server expects a TLS-terminating proxy in front of it. Set
// WORKOS_TRUST_PROXY so the session cookie's Secure attribute follows the
// proxy's X-Forwarded-Proto.
package server
