package main

import (
	"context"
	"fmt"
	"io"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/pkg/client"
	"github.com/namgiho96/giho-blog/pkg/session"
	"github.com/namgiho96/giho-blog/pkg/widget"
)

type cli struct {
	api      *client.Client
	sessions session.Provider
	out      io.Writer
}

func (a *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// auth resolves the session once per command.
func (a *cli) auth(ctx context.Context) (*widget.AuthState, error) {
	state := widget.NewAuthState()
	if err := state.Refresh(ctx, a.api); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return state, nil
}

func (a *cli) session(ctx context.Context) error {
	user, err := a.api.Session(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		a.printf("not signed in\n")
		return nil
	}
	a.printf("%s (@%s) via %s\n", user.DisplayName, user.UserName, user.Provider)
	return nil
}

func (a *cli) posts(ctx context.Context) error {
	list, err := a.api.Posts(ctx)
	if err != nil {
		return err
	}
	for _, p := range list.Posts {
		a.printf("%s  %-32s %s\n", p.FrontMatter.Date, p.Slug, p.FrontMatter.Title)
	}
	a.printf("%d posts\n", list.Total)
	return nil
}

func (a *cli) view(ctx context.Context, slug string) error {
	counter := widget.NewViewCounter(a.api, a.sessions, slug, 0)
	if err := counter.Load(ctx); err != nil {
		return err
	}
	a.printf("%s: %d views\n", slug, counter.Count())
	return nil
}

func (a *cli) like(ctx context.Context, slug string) error {
	auth, err := a.auth(ctx)
	if err != nil {
		return err
	}
	button := widget.NewLikeButton(a.api, auth, slug, models.LikeState{})
	if err := button.Load(ctx); err != nil {
		return err
	}
	if err := button.Toggle(ctx); err != nil {
		return err
	}
	view := button.View()
	verb := "unliked"
	if view.Liked {
		verb = "liked"
	}
	a.printf("%s %s: %d likes\n", verb, slug, view.Count)
	return nil
}

func (a *cli) thread(ctx context.Context, slug string) (*widget.CommentThread, error) {
	auth, err := a.auth(ctx)
	if err != nil {
		return nil, err
	}
	thread := widget.NewCommentThread(a.api, auth, slug)
	if err := thread.Refresh(ctx); err != nil {
		return nil, err
	}
	return thread, nil
}

func (a *cli) printComments(thread *widget.CommentThread) {
	comments := thread.Comments()
	for _, c := range comments {
		mark := " "
		if thread.CanModify(c) {
			mark = "*"
		}
		a.printf("%s %s  %s  %s\n    %s\n", mark, c.ID, c.CreatedAt.Format("2006-01-02 15:04"),
			c.User.DisplayName, c.Content)
	}
	a.printf("%d comments\n", len(comments))
}

func (a *cli) comments(ctx context.Context, slug string) error {
	thread, err := a.thread(ctx, slug)
	if err != nil {
		return err
	}
	a.printComments(thread)
	return nil
}

func (a *cli) addComment(ctx context.Context, slug, text string) error {
	thread, err := a.thread(ctx, slug)
	if err != nil {
		return err
	}
	if err := thread.Add(ctx, text); err != nil {
		return err
	}
	a.printComments(thread)
	return nil
}

func (a *cli) editComment(ctx context.Context, slug, id, text string) error {
	thread, err := a.thread(ctx, slug)
	if err != nil {
		return err
	}
	if err := thread.Edit(ctx, id, text); err != nil {
		return err
	}
	a.printComments(thread)
	return nil
}

func (a *cli) deleteComment(ctx context.Context, slug, id string) error {
	thread, err := a.thread(ctx, slug)
	if err != nil {
		return err
	}
	if err := thread.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("deleted %s\n", id)
	return nil
}
