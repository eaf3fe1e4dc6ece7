package reddit

import (
	"testing"

	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

const testBase = "https://www.reddit.com/r/ios/top.json"

func mustBuilder(t *testing.T, base string) *URLBuilder {
	t.Helper()
	b, err := NewURLBuilder(base)
	if err != nil {
		t.Fatalf("NewURLBuilder(%q): %v", base, err)
	}
	return b
}

func TestNewURLBuilderRejectsInvalid(t *testing.T) {
	for _, base := range []string{"", "not a url", "/r/ios/top.json", "://missing-scheme"} {
		if _, err := NewURLBuilder(base); !errors.IsInvalidURL(err) {
			t.Errorf("NewURLBuilder(%q) error = %v, want ErrInvalidURL", base, err)
		}
	}
}

func TestSubredditLabel(t *testing.T) {
	b := mustBuilder(t, testBase)

	label, ok := b.SubredditLabel()
	if !ok || label != "r/ios" {
		t.Fatalf("SubredditLabel() = %q, %v; want r/ios, true", label, ok)
	}

	for _, name := range []string{"golang", "AskReddit", "programming"} {
		if err := b.AddParam(ParamSubreddit, name); err != nil {
			t.Fatalf("AddParam(subreddit, %q): %v", name, err)
		}
		label, ok := b.SubredditLabel()
		if !ok || label != "r/"+name {
			t.Errorf("SubredditLabel() = %q, %v; want r/%s", label, ok, name)
		}
	}

	u, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if u.Path != "/r/programming/top.json" {
		t.Errorf("path = %q, want /r/programming/top.json", u.Path)
	}
}

func TestSubredditLabelMissing(t *testing.T) {
	for _, base := range []string{"https://www.reddit.com/top.json", "https://www.reddit.com/r"} {
		b := mustBuilder(t, base)
		if label, ok := b.SubredditLabel(); ok {
			t.Errorf("SubredditLabel() for %q = %q, want none", base, label)
		}
	}
}

func TestAddParamEmptySubreddit(t *testing.T) {
	b := mustBuilder(t, testBase)
	if err := b.AddParam(ParamSubreddit, ""); !errors.IsInvalidURL(err) {
		t.Fatalf("error = %v, want ErrInvalidURL", err)
	}
	if label, _ := b.SubredditLabel(); label != "r/ios" {
		t.Errorf("label changed to %q", label)
	}
}

func TestAddParamUpserts(t *testing.T) {
	for _, name := range []string{ParamLimit, ParamAfter} {
		b := mustBuilder(t, testBase)
		if err := b.AddParam(name, "first"); err != nil {
			t.Fatalf("AddParam: %v", err)
		}
		if err := b.AddParam(name, "second"); err != nil {
			t.Fatalf("AddParam: %v", err)
		}

		u, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		values := u.Query()[name]
		if len(values) != 1 || values[0] != "second" {
			t.Errorf("%s = %v, want [second]", name, values)
		}
	}
}

func TestAddParamKeepsOtherItems(t *testing.T) {
	b := mustBuilder(t, testBase+"?t=week")
	if err := b.AddParam(ParamLimit, "15"); err != nil {
		t.Fatal(err)
	}
	if err := b.AddParam(ParamAfter, "t3_abc"); err != nil {
		t.Fatal(err)
	}

	u, _ := b.Build()
	q := u.Query()
	if q.Get("t") != "week" || q.Get(ParamLimit) != "15" || q.Get(ParamAfter) != "t3_abc" {
		t.Errorf("query = %q", u.RawQuery)
	}
}

func TestAddParamRejectsUnknown(t *testing.T) {
	b := mustBuilder(t, testBase)
	if err := b.AddParam(ParamLimit, "10"); err != nil {
		t.Fatal(err)
	}
	before, _ := b.Build()

	for _, name := range []string{"sort", "", "Limit", "count"} {
		if err := b.AddParam(name, "x"); !errors.IsInvalidURL(err) {
			t.Errorf("AddParam(%q) error = %v, want ErrInvalidURL", name, err)
		}
	}

	after, _ := b.Build()
	if before.String() != after.String() {
		t.Errorf("state changed: %s -> %s", before, after)
	}
}

func TestBuildReturnsCopy(t *testing.T) {
	b := mustBuilder(t, testBase)
	u, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	u.Path = "/changed"

	again, _ := b.Build()
	if again.Path != "/r/ios/top.json" {
		t.Errorf("builder mutated through Build result: %s", again.Path)
	}
}
