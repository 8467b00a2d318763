package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/client"
	"github.com/reoring/contentapi/collection"
	"github.com/reoring/contentapi/transport"
)

type listOptions struct {
	page     int
	perPage  int
	asc      bool
	typ      string
	subjects []string
}

// source is the untyped view of one resource client.
type source struct {
	count func(ctx context.Context) (int, error)
	slice func(ctx context.Context, offset, length int) ([]any, error)
}

func newKindCmd(kind contentapi.Kind, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("List, count or fetch %s", kind),
	}
	cmd.AddCommand(newListCmd(kind, g), newCountCmd(kind, g), newGetCmd(kind, g))
	return cmd
}

func addViewFlags(cmd *cobra.Command, o *listOptions) {
	f := cmd.Flags()
	f.BoolVar(&o.asc, "asc", false, "oldest first")
	f.StringVar(&o.typ, "type", "", "restrict events to one type")
	f.StringSliceVar(&o.subjects, "subject", nil, "restrict to items in any of these subject ids")
}

func newListCmd(kind contentapi.Kind, g *globals) *cobra.Command {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("Print one page of %s as snippets", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.page < 1 {
				return errors.Errorf("--page must be at least 1, got %d", o.page)
			}
			if o.perPage < 1 || o.perPage > client.DefaultPageSize {
				return errors.Errorf("--per-page must be between 1 and %d, got %d", client.DefaultPageSize, o.perPage)
			}
			return g.run(cmd, func(ctx context.Context, s *session, p printer) error {
				src, err := view(s.sdk, kind, *o)
				if err != nil {
					return err
				}
				items, err := src.slice(ctx, (o.page-1)*o.perPage, o.perPage)
				if err != nil {
					return err
				}
				total, err := src.count(ctx)
				if err != nil {
					return err
				}
				return p.list(ctx, s.sdk.Registry(), total, items)
			})
		},
	}
	cmd.Flags().IntVar(&o.page, "page", 1, "page number, from 1")
	cmd.Flags().IntVar(&o.perPage, "per-page", 20, "items per page")
	addViewFlags(cmd, o)
	return cmd
}

func newCountCmd(kind contentapi.Kind, g *globals) *cobra.Command {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:   "count",
		Short: fmt.Sprintf("Print the number of %s", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, s *session, p printer) error {
				src, err := view(s.sdk, kind, *o)
				if err != nil {
					return err
				}
				n, err := src.count(ctx)
				if err != nil {
					return err
				}
				return p.count(n)
			})
		},
	}
	addViewFlags(cmd, o)
	return cmd
}

func newGetCmd(kind contentapi.Kind, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Print one of the %s, complete", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, func(ctx context.Context, s *session, p printer) error {
				v, err := s.sdk.Get(ctx, kind, args[0]).Wait()
				if err != nil {
					return err
				}
				return p.item(ctx, s.sdk.Registry(), v)
			})
		},
	}
}

// view selects the client of kind and applies o.
func view(sdk *client.SDK, kind contentapi.Kind, o listOptions) (source, error) {
	if kind == contentapi.KindEvents {
		return sourceOf(sdk.Events.ForType(o.typ).Resource, o), nil
	}
	if o.typ != "" && o.typ != transport.TypeAll {
		return source{}, errors.Errorf("--type applies to %s only", contentapi.KindEvents)
	}
	switch kind {
	case contentapi.KindArticles:
		return sourceOf(sdk.Articles, o), nil
	case contentapi.KindBlogArticles:
		return sourceOf(sdk.BlogArticles, o), nil
	case contentapi.KindCollections:
		return sourceOf(sdk.Collections, o), nil
	case contentapi.KindInterviews:
		return sourceOf(sdk.Interviews.Resource, o), nil
	case contentapi.KindPeople:
		return sourceOf(sdk.People, o), nil
	case contentapi.KindPodcastEpisodes:
		return sourceOf(sdk.PodcastEpisodes, o), nil
	case contentapi.KindSubjects:
		return sourceOf(sdk.Subjects, o), nil
	}
	return source{}, errors.Errorf("no client for %s", kind)
}

func sourceOf[T any](r client.Resource[T], o listOptions) source {
	if o.asc {
		r = r.WithOrder(contentapi.Ascending)
	}
	if len(o.subjects) > 0 {
		r = r.WithSubjects(o.subjects...)
	}
	return source{
		count: r.Count,
		slice: func(ctx context.Context, offset, length int) ([]any, error) {
			items, err := r.Slice(ctx, offset, length).ToSlice(ctx)
			if err != nil {
				return nil, err
			}
			return collection.Map(collection.FromSlice(items), func(v T) any { return v }).ToSlice(ctx)
		},
	}
}
