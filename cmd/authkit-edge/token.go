package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/authkit/client/tokenstore"
	"github.com/dmitrymomot/authkit/core/cookie"
	"github.com/dmitrymomot/authkit/core/logger"
)

func tokenCmd() *cobra.Command {
	var (
		endpoint   string
		sealed     string
		cookieName string
		force      bool
		watch      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Fetch an access token from a running edge",
		Long: `Fetch an access token from a running edge's access-token endpoint,
presenting a sealed session cookie. With --watch the token is kept fresh
in the background and printed whenever it changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(endpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint: %w", err)
			}

			jar, err := cookiejar.New(nil)
			if err != nil {
				return err
			}
			if sealed != "" {
				jar.SetCookies(u, []*http.Cookie{{Name: cookieName, Value: sealed, Path: "/"}})
			}

			log := logger.Discard()
			if verbose {
				log = logger.New(logger.WithDevelopment("authkit-edge"), logger.WithOutput(cmd.ErrOrStderr()))
			}

			fetcher, err := tokenstore.NewHTTPFetcher(endpoint,
				tokenstore.WithJar(jar),
				tokenstore.WithFetcherLogger(log),
			)
			if err != nil {
				return err
			}

			store := tokenstore.New(fetcher,
				tokenstore.WithFastTokenSource(tokenstore.CookieFastToken{Jar: jar, URL: u}),
				tokenstore.WithLogger(log),
			)
			defer store.Reset()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runToken(ctx, cmd.OutOrStdout(), store, force, watch)
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "http://localhost:8080/access-token", "access-token endpoint URL")
	cmd.Flags().StringVarP(&sealed, "session", "s", os.Getenv("AUTHKIT_SESSION"), "sealed session cookie value")
	cmd.Flags().StringVar(&cookieName, "cookie-name", cookie.DefaultName, "session cookie name")
	cmd.Flags().BoolVarP(&force, "refresh", "r", false, "force a refresh instead of reading the current token")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep the token fresh and print every change")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	return cmd
}

func runToken(ctx context.Context, out io.Writer, store *tokenstore.Store, force, watch bool) error {
	var (
		token string
		err   error
	)
	if force {
		token, err = store.RefreshToken(ctx)
	} else {
		token, err = store.GetAccessToken(ctx)
	}
	if err != nil {
		return err
	}
	printToken(out, store, token)

	if !watch {
		return nil
	}

	var mu sync.Mutex
	last := token
	unsubscribe := store.Subscribe(func(st tokenstore.State) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case st.Err != nil:
			fmt.Fprintf(out, "refresh failed: %v\n", st.Err)
		case st.Token != "" && st.Token != last:
			last = st.Token
			printToken(out, store, st.Token)
		}
	})
	defer unsubscribe()

	// The background refresh is armed by the fetch above.
	_, _ = store.GetAccessTokenSilently(ctx)

	<-ctx.Done()
	return nil
}

func printToken(out io.Writer, store *tokenstore.Store, token string) {
	fmt.Fprintln(out, token)
	if info := store.ParseToken(token); info != nil {
		fmt.Fprintf(out, "  expires %s (in %s)\n", info.ExpiresAt.Format(time.RFC3339), info.TimeUntilExpiry.Round(time.Second))
		if info.Payload.Subject != "" {
			fmt.Fprintf(out, "  subject %s\n", info.Payload.Subject)
		}
		if info.Payload.OrganizationID != "" {
			fmt.Fprintf(out, "  organization %s\n", info.Payload.OrganizationID)
		}
	}
}
