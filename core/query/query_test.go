package query

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/schema"
	"github.com/google/go-cmp/cmp"
)

func articles(search ...string) descriptor.Erased {
	return descriptor.MustErase(&descriptor.Static{
		Name:   "Article",
		List:   []string{"title", "createdAt"},
		Search: search,
		Edit: []schema.Field{
			schema.Text("title", "Title"),
			schema.Multiline("body", "Body"),
		},
	})
}

func TestDefault(t *testing.T) {
	got := Default(articles("title"))
	want := ListQuery{
		Page:         1,
		PerPage:      25,
		SortField:    "id",
		Ascending:    false,
		SearchFields: []string{"title"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromValues(t *testing.T) {
	tests := []struct {
		name      string
		d         descriptor.Erased
		values    url.Values
		page      int
		sortField string
		ascending bool
		search    string
	}{
		{
			name:      "empty request",
			d:         articles(),
			values:    url.Values{},
			page:      1,
			sortField: "id",
		},
		{
			name:      "page and known sort field",
			d:         articles(),
			values:    url.Values{"page": {"3"}, "sort": {"title"}},
			page:      3,
			sortField: "title",
			ascending: true,
		},
		{
			name:      "explicit descending",
			d:         articles(),
			values:    url.Values{"sort": {"body"}, "dir": {"DESC"}},
			page:      1,
			sortField: "body",
		},
		{
			name:      "default field ascending",
			d:         articles(),
			values:    url.Values{"dir": {"asc"}},
			page:      1,
			sortField: "id",
			ascending: true,
		},
		{
			name:      "unknown sort field and bad page",
			d:         articles(),
			values:    url.Values{"page": {"-1"}, "sort": {"password; DROP TABLE"}},
			page:      1,
			sortField: "id",
		},
		{
			name:      "search kept when searchable",
			d:         articles("title"),
			values:    url.Values{"q": {"  go  "}},
			page:      1,
			sortField: "id",
			search:    "go",
		},
		{
			name:      "search dropped without search fields",
			d:         articles(),
			values:    url.Values{"q": {"go"}},
			page:      1,
			sortField: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := FromValues(tt.d, tt.values)
			if q.Page != tt.page || q.SortField != tt.sortField || q.Ascending != tt.ascending || q.Search != tt.search {
				t.Errorf("FromValues() = %+v", q)
			}
			if q.PerPage != 25 {
				t.Errorf("PerPage = %d, want 25", q.PerPage)
			}
		})
	}
}

func TestOffsetAndPages(t *testing.T) {
	q := ListQuery{Page: 3, PerPage: 25}
	if q.Offset() != 50 || q.Limit() != 25 {
		t.Errorf("Offset/Limit = %d/%d", q.Offset(), q.Limit())
	}
	if (ListQuery{Page: 0, PerPage: 25}).Offset() != 0 {
		t.Error("Offset() for page 0 should be 0")
	}

	tests := map[int64]int{0: 1, 1: 1, 25: 1, 26: 2, 100: 4}
	for total, want := range tests {
		if got := q.Pages(total); got != want {
			t.Errorf("Pages(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestFromValues_HugePage(t *testing.T) {
	d := articles()

	tests := []string{
		"368934881474191034",
		"9223372036854775807",
		strconv.Itoa(math.MaxInt / 25),
	}
	for _, page := range tests {
		t.Run(page, func(t *testing.T) {
			q := FromValues(d, url.Values{ParamPage: {page}})
			if q.Page < 1 {
				t.Fatalf("Page = %d, want positive", q.Page)
			}
			if off := q.Offset(); off < 0 {
				t.Errorf("Offset() = %d, want non-negative", off)
			}
			if next := q.WithPage(q.Page + 1); next.Page < q.Page {
				t.Errorf("next page overflowed: %d", next.Page)
			}
		})
	}
}

func TestOffset_Saturates(t *testing.T) {
	q := ListQuery{Page: math.MaxInt, PerPage: 25}
	if got := q.Offset(); got != math.MaxInt {
		t.Errorf("Offset() = %d, want math.MaxInt", got)
	}
	if got := (ListQuery{Page: 5}).Offset(); got != 0 {
		t.Errorf("Offset() without page size = %d, want 0", got)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	d := articles("title")

	if v := Default(d).Values(d); len(v) != 0 {
		t.Errorf("Values() of the default query = %v, want empty", v)
	}

	q := FromValues(d, url.Values{"page": {"2"}, "q": {"go"}, "sort": {"title"}})
	back := FromValues(d, q.Values(d))
	if diff := cmp.Diff(q, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	next := q.WithPage(3)
	if next.Page != 3 || q.Page != 2 {
		t.Error("WithPage() modified the receiver")
	}
}
