package transport_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/h2non/gock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/transport"
)

const baseURL = "https://api.example.test"

var _ = Describe("HTTP", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		client *http.Client
		reg    *prometheus.Registry
		tr     *transport.HTTP
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		client = &http.Client{}
		gock.InterceptClient(client)
		reg = prometheus.NewRegistry()

		var err error
		tr, err = transport.NewHTTP(baseURL,
			transport.WithHTTPClient(client),
			transport.WithRetry(time.Millisecond, 200*time.Millisecond),
			transport.WithRegisterer(reg))
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		cancel()
		gock.RestoreClient(client)
		gock.OffAll()
	})

	Context("FetchOne", func() {
		It("requests the item media type and returns the payload", func() {
			gock.New(baseURL).
				Get("/events/e1").
				MatchHeader("Accept", regexp.QuoteMeta("application/vnd.elife.event+json; version=1")).
				HeaderPresent("X-Request-Id").
				Reply(200).
				JSON(map[string]any{"id": "e1", "title": "Webinar"})

			obj, err := tr.FetchOne(ctx, contentapi.KindEvents, "e1").Wait()
			Expect(err).ToNot(HaveOccurred())
			Expect(obj.Raw()).To(HaveKeyWithValue("title", "Webinar"))
			Expect(gock.IsDone()).To(BeTrue())
		})

		It("asks for both article states", func() {
			gock.New(baseURL).
				Get("/articles/09560").
				MatchHeader("Accept", regexp.QuoteMeta("application/vnd.elife.article-poa+json; version=1, application/vnd.elife.article-vor+json; version=1")).
				Reply(200).
				JSON(map[string]any{"id": "09560"})

			_, err := tr.FetchOne(ctx, contentapi.KindArticles, "09560").Wait()
			Expect(err).ToNot(HaveOccurred())
		})

		It("maps 404 to ErrNotFound without retrying", func() {
			gock.New(baseURL).
				Get("/people/nobody").
				Times(1).
				Reply(404)

			_, err := tr.FetchOne(ctx, contentapi.KindPeople, "nobody").Wait()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, contentapi.ErrNotFound)).To(BeTrue())
			Expect(errors.Is(err, contentapi.ErrTransport)).To(BeTrue())
			Expect(gock.IsDone()).To(BeTrue())
		})

		It("retries server errors", func() {
			gock.New(baseURL).Get("/subjects/genomics").Reply(503)
			gock.New(baseURL).Get("/subjects/genomics").Reply(502)
			gock.New(baseURL).
				Get("/subjects/genomics").
				Reply(200).
				JSON(map[string]any{"id": "genomics"})

			obj, err := tr.FetchOne(ctx, contentapi.KindSubjects, "genomics").Wait()
			Expect(err).ToNot(HaveOccurred())
			Expect(obj.Raw()).To(HaveKeyWithValue("id", "genomics"))
			Expect(gock.IsDone()).To(BeTrue())
		})

		It("does not retry client errors", func() {
			gock.New(baseURL).Get("/events/bad").Times(1).Reply(400).BodyString("bad request")

			_, err := tr.FetchOne(ctx, contentapi.KindEvents, "bad").Wait()
			var te *transport.TransportError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Type).To(Equal(transport.ErrorTypeClient))
			Expect(te.StatusCode).To(Equal(400))
			Expect(errors.Is(err, contentapi.ErrNotFound)).To(BeFalse())
			Expect(gock.IsDone()).To(BeTrue())
		})

		It("gives up on persistent server errors", func() {
			gock.New(baseURL).Get("/events/down").Persist().Reply(500)

			_, err := tr.FetchOne(ctx, contentapi.KindEvents, "down").Wait()
			var te *transport.TransportError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Type).To(Equal(transport.ErrorTypeServer))
		})

		It("revalidates stored responses with their ETag", func() {
			gock.New(baseURL).
				Get("/interviews/i1").
				Reply(200).
				SetHeader("ETag", `"v1"`).
				JSON(map[string]any{"id": "i1", "title": "Chat"})
			gock.New(baseURL).
				Get("/interviews/i1").
				MatchHeader("If-None-Match", `"v1"`).
				Reply(304)

			first, err := tr.FetchOne(ctx, contentapi.KindInterviews, "i1").Wait()
			Expect(err).ToNot(HaveOccurred())
			second, err := tr.FetchOne(ctx, contentapi.KindInterviews, "i1").Wait()
			Expect(err).ToNot(HaveOccurred())
			Expect(second.Raw()).To(Equal(first.Raw()))
			Expect(gock.IsDone()).To(BeTrue())
		})

		It("reports malformed bodies as decode mismatches", func() {
			gock.New(baseURL).Get("/events/broken").Reply(200).BodyString("{not json")

			_, err := tr.FetchOne(ctx, contentapi.KindEvents, "broken").Wait()
			Expect(errors.Is(err, contentapi.ErrDecodeMismatch)).To(BeTrue())
		})
	})

	Context("WithStrictKeys", func() {
		It("rejects repeated keys", func() {
			strict, err := transport.NewHTTP(baseURL,
				transport.WithHTTPClient(client),
				transport.WithStrictKeys())
			Expect(err).ToNot(HaveOccurred())
			gock.New(baseURL).Get("/events/dup").Reply(200).BodyString(`{"id": "dup", "title": "a", "title": "b"}`)

			_, err = strict.FetchOne(ctx, contentapi.KindEvents, "dup").Wait()
			Expect(errors.Is(err, contentapi.ErrDecodeMismatch)).To(BeTrue())
			iss, ok := contentapi.AsIssues(err)
			Expect(ok).To(BeTrue())
			Expect(iss[0].Code).To(Equal(contentapi.CodeDuplicateKey))
			Expect(iss[0].Path).To(Equal("/title"))
		})

		It("keeps the last value without it", func() {
			gock.New(baseURL).Get("/events/dup").Reply(200).BodyString(`{"id": "dup", "title": "a", "title": "b"}`)

			obj, err := tr.FetchOne(ctx, contentapi.KindEvents, "dup").Wait()
			Expect(err).ToNot(HaveOccurred())
			Expect(obj.Raw()).To(HaveKeyWithValue("title", "b"))
		})
	})

	Context("FetchPage", func() {
		It("sends paging, order and filters", func() {
			gock.New(baseURL).
				Get("/events").
				MatchParam("page", "2").
				MatchParam("per-page", "10").
				MatchParam("order", "asc").
				MatchParam("type", "open").
				MatchHeader("Accept", regexp.QuoteMeta("application/vnd.elife.event-list+json; version=1")).
				Reply(200).
				JSON(map[string]any{"total": 11, "items": []any{map[string]any{"id": "e11"}}})

			obj, err := tr.FetchPage(ctx, contentapi.KindEvents, transport.PageQuery{
				Page: 2, PerPage: 10, Order: contentapi.Ascending, Type: "open",
			}).Wait()
			Expect(err).ToNot(HaveOccurred())
			Expect(obj.Has("items")).To(BeTrue())
			Expect(gock.IsDone()).To(BeTrue())
		})

		It("omits the type filter for all types", func() {
			gock.New(baseURL).
				Get("/blog-articles").
				MatchParam("order", "desc").
				ParamPresent("page").
				Reply(200).
				JSON(map[string]any{"total": 0, "items": []any{}})

			_, err := tr.FetchPage(ctx, contentapi.KindBlogArticles, transport.PageQuery{
				Page: 1, PerPage: 1, Type: transport.TypeAll,
			}).Wait()
			Expect(err).ToNot(HaveOccurred())
		})
	})

	It("records request metrics", func() {
		gock.New(baseURL).Get("/subjects/s").Reply(200).JSON(map[string]any{"id": "s"})

		_, err := tr.FetchOne(ctx, contentapi.KindSubjects, "s").Wait()
		Expect(err).ToNot(HaveOccurred())

		families, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())
		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		Expect(names).To(ContainElements(
			"contentapi_transport_requests_total",
			"contentapi_transport_request_duration_seconds"))
	})
})

var _ = Describe("PageQuery", func() {
	It("renders subject filters as repeated parameters", func() {
		v := transport.PageQuery{Page: 1, PerPage: 20, Subjects: []string{"genomics", "neuroscience"}}.Values()
		Expect(v["subject[]"]).To(Equal([]string{"genomics", "neuroscience"}))
		Expect(v.Get("order")).To(Equal("desc"))
		Expect(v.Has("type")).To(BeFalse())
	})
})
