// Command blogcli is a terminal client for the blog interaction API. It drives
// the same widget state machines a page would: view counter, like button and
// comment thread, plus a live event watcher.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/namgiho96/giho-blog/pkg/client"
	"github.com/namgiho96/giho-blog/pkg/session"
)

const usageText = `usage: blogcli [flags] <command> [args]

commands:
  session                     show the signed-in user
  logout                      revoke the session token
  posts                       list posts
  view <slug>                 record a view and print the count
  like <slug>                 toggle your like
  comments <slug>             list comments
  comment <slug> <text>       add a comment
  edit <slug> <id> <text>     edit your comment
  delete <slug> <id>          delete your comment
  watch <slug>                stream live interaction events
`

// options are the global flags shared by every command.
type options struct {
	api        string
	token      string
	sessionDir string
}

func main() {
	opts := options{}
	fs := flag.NewFlagSet("blogcli", flag.ExitOnError)
	fs.StringVar(&opts.api, "api", envOr("BLOG_API_URL", "http://localhost:8080"), "API base URL")
	fs.StringVar(&opts.token, "token", os.Getenv("BLOG_TOKEN"), "session token (see the blog_session cookie)")
	fs.StringVar(&opts.sessionDir, "session-dir", "", "directory holding the anonymous session id")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usageText); fs.PrintDefaults() }
	_ = fs.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, fs.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var errUsage = errors.New("usage")

func run(ctx context.Context, opts options, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	var clientOpts []client.Option
	if opts.token != "" {
		clientOpts = append(clientOpts, client.WithToken(opts.token))
	}
	app := &cli{
		api:      client.New(opts.api, clientOpts...),
		sessions: session.NewFileProvider(opts.sessionDir),
		out:      out,
	}

	cmd, rest := args[0], args[1:]
	need := func(n int) error {
		if len(rest) != n {
			return errUsage
		}
		return nil
	}

	switch cmd {
	case "session":
		return app.session(ctx)
	case "logout":
		if err := app.api.Logout(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "signed out")
		return nil
	case "posts":
		return app.posts(ctx)
	case "view":
		if err := need(1); err != nil {
			return err
		}
		return app.view(ctx, rest[0])
	case "like":
		if err := need(1); err != nil {
			return err
		}
		return app.like(ctx, rest[0])
	case "comments":
		if err := need(1); err != nil {
			return err
		}
		return app.comments(ctx, rest[0])
	case "comment":
		if err := need(2); err != nil {
			return err
		}
		return app.addComment(ctx, rest[0], rest[1])
	case "edit":
		if err := need(3); err != nil {
			return err
		}
		return app.editComment(ctx, rest[0], rest[1], rest[2])
	case "delete":
		if err := need(2); err != nil {
			return err
		}
		return app.deleteComment(ctx, rest[0], rest[1])
	case "watch":
		if err := need(1); err != nil {
			return err
		}
		return app.watch(ctx, rest[0])
	default:
		return errUsage
	}
}
