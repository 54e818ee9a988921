// Package tokenstore is the client-side access-token cache.
//
// A Store answers "give me a usable access token now" for every consumer in
// a process. Cached claims-bearing tokens are returned until they enter
// their expiry buffer (60s, or 30s for tokens living five minutes or less);
// opaque tokens are returned as is and never refreshed proactively.
// Concurrent refreshes share a single fetch. While at least one listener is
// subscribed, a single timer refreshes the token shortly before expiry and
// retries every five minutes after a failure. A failed refresh keeps the
// previous token and exposes the error through State.Err.
//
//	jar, _ := cookiejar.New(nil)
//	fetcher, err := tokenstore.NewHTTPFetcher("https://app.example.com/auth/token",
//		tokenstore.WithJar(jar),
//	)
//	if err != nil {
//		return err
//	}
//	store := tokenstore.New(fetcher,
//		tokenstore.WithFastTokenSource(tokenstore.CookieFastToken{Jar: jar, URL: appURL}),
//	)
//	tokenstore.SetDefault(store)
//
//	unsubscribe := store.Subscribe(func(s tokenstore.State) {
//		log.Info("token changed", "loading", s.Loading)
//	})
//	defer unsubscribe()
//
//	token, err := store.GetAccessTokenSilently(ctx)
package tokenstore
