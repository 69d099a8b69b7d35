// Package content loads the blog's post catalog from .mdx files with YAML front matter.
// Bodies are kept as raw markup; rendering happens in the frontend build.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const postExt = ".mdx"

// ErrNoFrontMatter is returned for files that do not open with a --- block.
var ErrNoFrontMatter = errors.New("missing front matter")

// FrontMatter is the metadata block at the top of a post.
type FrontMatter struct {
	Title       string   `yaml:"title" json:"title"`
	Date        string   `yaml:"date" json:"date"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
}

// PostMeta is a catalog entry without its body.
type PostMeta struct {
	Slug        string      `json:"slug"`
	FrontMatter FrontMatter `json:"frontmatter"`
}

// Post is a catalog entry with its raw markup body.
type Post struct {
	PostMeta
	Content string `json:"content"`
}

// Library is an immutable, date-sorted post catalog.
type Library struct {
	posts  []Post
	bySlug map[string]int
}

// Load reads every .mdx file in dir. A missing directory yields an empty library.
func Load(dir string) (*Library, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	return LoadFS(os.DirFS(dir))
}

// Empty returns a library with no posts.
func Empty() *Library {
	return newLibrary(nil)
}

// LoadFS reads every .mdx file at the root of fsys.
func LoadFS(fsys fs.FS) (*Library, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var posts []Post
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != postExt {
			continue
		}
		raw, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		post, err := Parse(strings.TrimSuffix(entry.Name(), postExt), raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		posts = append(posts, post)
	}
	return newLibrary(posts), nil
}

// Parse splits a post file into front matter and body.
func Parse(slug string, raw []byte) (Post, error) {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	rest, ok := bytes.CutPrefix(raw, []byte("---\n"))
	if !ok {
		return Post{}, ErrNoFrontMatter
	}

	var header, body []byte
	if h, b, found := bytes.Cut(rest, []byte("\n---\n")); found {
		header, body = h, b
	} else if h, found := bytes.CutSuffix(rest, []byte("\n---")); found {
		header = h
	} else {
		return Post{}, ErrNoFrontMatter
	}

	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Post{}, fmt.Errorf("front matter: %w", err)
	}

	return Post{
		PostMeta: PostMeta{Slug: slug, FrontMatter: fm},
		Content:  strings.TrimLeft(string(body), "\n"),
	}, nil
}

func newLibrary(posts []Post) *Library {
	// Newest first; dates are ISO strings so lexical order is chronological.
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].FrontMatter.Date != posts[j].FrontMatter.Date {
			return posts[i].FrontMatter.Date > posts[j].FrontMatter.Date
		}
		return posts[i].Slug < posts[j].Slug
	})
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	return &Library{posts: posts, bySlug: bySlug}
}

// All returns metadata for every post, newest first.
func (l *Library) All() []PostMeta {
	out := make([]PostMeta, len(l.posts))
	for i, p := range l.posts {
		out[i] = p.PostMeta
	}
	return out
}

// Get returns the post with slug.
func (l *Library) Get(slug string) (Post, bool) {
	i, ok := l.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return l.posts[i], true
}

// Slugs returns every post slug, newest first.
func (l *Library) Slugs() []string {
	out := make([]string, len(l.posts))
	for i, p := range l.posts {
		out[i] = p.Slug
	}
	return out
}

// Len reports the number of posts.
func (l *Library) Len() int {
	return len(l.posts)
}
