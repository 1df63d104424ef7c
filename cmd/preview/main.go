package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging/console"
)

func main() {
	if err := runPreview(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("blog preview: %v", err)
	}
}

func runPreview(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("blog-preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	contentDir := fs.String("content-dir", "", "Directory holding the markdown posts")
	slug := fs.String("slug", "", "Post to render; lists every post when empty")
	tag := fs.String("tag", "", "Only list posts carrying this tag")
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	verbose := fs.Bool("verbose", false, "Log loader diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := bootstrap.LoadConfig(bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
	})
	if err != nil {
		return err
	}

	var opts []di.Option
	if *verbose {
		level := console.LevelDebug
		opts = append(opts, di.WithLoggerProvider(console.NewProvider(console.Options{
			Writer:   stderr,
			MinLevel: &level,
		})))
	}

	module, err := blog.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("initialise blog module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	if strings.TrimSpace(*slug) != "" {
		post, err := module.Posts().Get(ctx, *slug)
		if err != nil {
			return fmt.Errorf("post %q: %w", *slug, err)
		}
		if *asJSON {
			return writeJSON(stdout, post)
		}
		printPost(stdout, post)
		return nil
	}

	list, err := module.Posts().ListByTag(ctx, *tag)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	if *asJSON {
		return writeJSON(stdout, list)
	}
	printListing(stdout, list)
	return nil
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func printPost(w io.Writer, post *blog.Post) {
	fmt.Fprintf(w, "Slug: %s\nTitle: %s\nDate: %s\nAuthor: %s\n", post.Slug, post.Title, post.Date.Format("2006-01-02"), post.Author)
	if len(post.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(post.Tags, ", "))
	}
	if post.Pinned {
		fmt.Fprintln(w, "Pinned: yes")
	}
	fmt.Fprintf(w, "\nRendered HTML:\n%s\n", post.HTML)
}

func printListing(w io.Writer, list []blog.PostSummary) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no posts")
		return
	}
	for _, post := range list {
		marker := " "
		if post.Pinned {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s  %-30s %s\n", marker, post.Date.Format("2006-01-02"), post.Slug, post.Title)
	}
}
