package cloudinary

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Uploader struct {
	cld *cld.Cloudinary
}

func NewUploader(cloud *cld.Cloudinary) *Uploader {
	return &Uploader{cld: cloud}
}

func (u *Uploader) UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error) {
	reader := bytes.NewReader(b)

	res, err := u.cld.Upload.Upload(
		ctx,
		reader,
		uploader.UploadParams{
			Folder:       folder,
			PublicID:     filename,
			ResourceType: "image",
		},
	)
	if err != nil {
		return "", err
	}

	return res.SecureURL, nil
}
