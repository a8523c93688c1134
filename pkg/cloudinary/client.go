package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New builds a client from a CLOUDINARY_URL-style connection string.
func New(url string) (*cloudinary.Cloudinary, error) {
	if url == "" {
		return cloudinary.New()
	}
	return cloudinary.NewFromURL(url)
}
