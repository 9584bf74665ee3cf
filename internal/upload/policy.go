package upload

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeJPG  = "image/jpg"
	mimeGIF  = "image/gif"
)

// Policy describes what a multipart request for one resource must carry.
type Policy struct {
	// FileField is the form field holding the image.
	FileField string
	// Required text fields; all must be present and non-blank.
	Required []string
	// NameField is slugged into the stored file name; Fallback is used when it is blank.
	NameField string
	Fallback  string
	// AllowedTypes lists the accepted image MIME types.
	AllowedTypes []string
	MaxBytes     int64
	FileRequired bool
}

// Optional returns a copy of p that accepts requests without a file.
func (p Policy) Optional() Policy {
	p.FileRequired = false
	return p
}

var (
	// BlogImage governs blog submission.
	BlogImage = Policy{
		FileField:    "blogImage",
		Required:     []string{"title", "description", "content", "authorName", "categories"},
		NameField:    "title",
		Fallback:     "blog",
		AllowedTypes: []string{mimeJPEG, mimePNG, mimeJPG, mimeGIF},
		MaxBytes:     5 << 20,
		FileRequired: true,
	}

	// UserImage governs registration.
	UserImage = Policy{
		FileField:    "userImage",
		Required:     []string{"username", "email", "password"},
		NameField:    "username",
		Fallback:     "user",
		AllowedTypes: []string{mimeJPEG, mimePNG, mimeJPG},
		MaxBytes:     2 << 20,
	}

	// UserProfile governs profile updates, where only the caller's id is mandatory.
	UserProfile = Policy{
		FileField:    "userImage",
		Required:     []string{"id"},
		NameField:    "username",
		Fallback:     "user",
		AllowedTypes: []string{mimeJPEG, mimePNG, mimeJPG},
		MaxBytes:     2 << 20,
	}
)

func (p Policy) allows(contentType string) bool {
	for _, t := range p.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
