package reddit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{-5 * time.Minute, "0m"},
		{-48 * time.Hour, "0m"},
		{0, "0m"},
		{30 * time.Second, "0m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{2 * time.Hour, "2h"},
		{23*time.Hour + 59*time.Minute, "23h"},
		{24 * time.Hour, "1d"},
		{3 * 24 * time.Hour, "3d"},
		{3*24*time.Hour + 23*time.Hour, "3d"},
	}

	for _, tt := range tests {
		if got := FormatAge(tt.age); got != tt.want {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestRecordTimePassed(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		created time.Time
		want    string
	}{
		{now.Add(-30 * time.Second), "0m"},
		{now.Add(5 * time.Minute), "0m"},
		{now.Add(-2 * time.Hour), "2h"},
		{now.Add(-3 * 24 * time.Hour), "3d"},
	}

	for _, tt := range tests {
		r := Record{CreatedUTC: float64(tt.created.Unix())}
		if got := r.TimePassed(now); got != tt.want {
			t.Errorf("TimePassed(created %v) = %q, want %q", tt.created, got, tt.want)
		}
	}
}

func TestRecordToPost(t *testing.T) {
	raw := `{
		"id": "1abc",
		"author_fullname": "t2_author",
		"title": "Swift 6 is out",
		"ups": 120,
		"downs": -5,
		"domain": "swift.org",
		"preview": {"images": [
			{"source": {"url": "https://preview.redd.it/x.jpg?width=640&amp;format=pjpg&amp;s=abc"}},
			{"source": {"url": "https://preview.redd.it/second.jpg"}}
		]},
		"num_comments": 42,
		"created_utc": 1741600800.0,
		"permalink": "/r/ios/comments/1abc/swift_6_is_out/"
	}`

	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}

	now := time.Unix(1741600800, 0).Add(5 * time.Hour)
	post, err := r.ToPost(now, true)
	if err != nil {
		t.Fatalf("ToPost: %v", err)
	}

	if post.ID != "1abc" || post.Author != "t2_author" || post.Title != "Swift 6 is out" || post.Domain != "swift.org" {
		t.Errorf("unexpected identity fields: %+v", post)
	}
	if post.Rating != 115 {
		t.Errorf("Rating = %d, want 115", post.Rating)
	}
	if post.NumComments != 42 {
		t.Errorf("NumComments = %d, want 42", post.NumComments)
	}
	if post.TimePassed != "5h" {
		t.Errorf("TimePassed = %q, want 5h", post.TimePassed)
	}
	if want := "https://preview.redd.it/x.jpg?width=640&format=pjpg&s=abc"; post.ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", post.ImageURL, want)
	}
	if want := "https://www.reddit.com/r/ios/comments/1abc/swift_6_is_out/"; post.Permalink != want {
		t.Errorf("Permalink = %q, want %q", post.Permalink, want)
	}
	if !post.Saved {
		t.Error("Saved = false, want true")
	}
}

func TestRecordToPostNegativeRatingAndNoPreview(t *testing.T) {
	r := Record{ID: "x", Ups: 0, Downs: -7, Permalink: "/r/ios/comments/x/"}
	post, err := r.ToPost(time.Now(), false)
	if err != nil {
		t.Fatal(err)
	}
	if post.Rating != -7 {
		t.Errorf("Rating = %d, want -7", post.Rating)
	}
	if post.HasImage() {
		t.Errorf("ImageURL = %q, want empty", post.ImageURL)
	}

	r.Preview = &Preview{}
	if got := r.ImageURL(); got != "" {
		t.Errorf("ImageURL with empty image list = %q", got)
	}
}

func TestRecordToPostMissingID(t *testing.T) {
	r := Record{Title: "orphan"}
	if _, err := r.ToPost(time.Now(), false); !errors.IsInvalidPost(err) {
		t.Fatalf("error = %v, want ErrInvalidPost", err)
	}
}

func TestListingAfter(t *testing.T) {
	var l Listing
	if err := json.Unmarshal([]byte(`{"data":{"after":null,"children":[]}}`), &l); err != nil {
		t.Fatal(err)
	}
	if l.After() != "" {
		t.Errorf("After() = %q, want empty", l.After())
	}

	if err := json.Unmarshal([]byte(`{"data":{"after":"t3_next","children":[]}}`), &l); err != nil {
		t.Fatal(err)
	}
	if l.After() != "t3_next" {
		t.Errorf("After() = %q, want t3_next", l.After())
	}
}
