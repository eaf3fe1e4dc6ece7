package domain

// Post is a single listing entry as shown to the user.
type Post struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	TimePassed  string `json:"time_passed"` // e.g. "42m", "3h", "2d"
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	ImageURL    string `json:"img_url,omitempty"` // empty when the post has no preview
	Rating      int    `json:"rating"`
	NumComments int    `json:"num_comments"`
	Permalink   string `json:"permalink"`
	Saved       bool   `json:"saved"`
}

// HasImage reports whether the post carries a preview image.
func (p *Post) HasImage() bool {
	return p.ImageURL != ""
}
