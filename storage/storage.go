// Package storage wraps the hosted media service. The privileged search
// and delete API must never be called with the secret key from a browser,
// so everything goes through here and gets proxied by the media routes.
package storage

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin/search"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"

	"github.com/mbolis/club-site/config"
	"github.com/mbolis/club-site/model"
	"github.com/mbolis/club-site/schema"
)

type Client struct {
	cld  *cloudinary.Cloudinary
	root string
}

func NewClient(cfg config.Config) (*Client, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryUrl)
	if err != nil {
		return nil, errors.Wrap(err, "storage.config")
	}
	return &Client{cld: cld, root: cfg.MediaRoot}, nil
}

// Upload stores a file under root/<subfolder> and returns the public asset.
func (c *Client) Upload(ctx context.Context, fh *multipart.FileHeader, subfolder string) (model.MediaAsset, error) {
	return c.upload(ctx, fh, c.root+"/"+subfolder)
}

// UploadFormFile stores a registration file answer under
// root/form_register/<activity title>. Satisfies schema.FileUploader.
func (c *Client) UploadFormFile(ctx context.Context, fh *multipart.FileHeader, activityTitle string) (schema.FileRef, error) {
	asset, err := c.upload(ctx, fh, c.root+"/form_register/"+activityTitle)
	if err != nil {
		return schema.FileRef{}, err
	}

	return schema.FileRef{
		FileName: fh.Filename,
		FileUrl:  asset.Url,
		FileSize: fh.Size,
		FileType: fh.Header.Get("Content-Type"),
		PublicID: asset.PublicID,
	}, nil
}

func (c *Client) upload(ctx context.Context, fh *multipart.FileHeader, folder string) (model.MediaAsset, error) {
	file, err := fh.Open()
	if err != nil {
		return model.MediaAsset{}, errors.Wrap(err, "storage.upload.open")
	}
	defer file.Close()

	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return model.MediaAsset{}, errors.Wrap(err, "storage.upload")
	}

	return model.MediaAsset{
		ID:             res.PublicID,
		Url:            res.SecureURL,
		PublicID:       res.PublicID,
		Name:           assetName(res.PublicID),
		Folder:         UIFolder(res.PublicID),
		OriginalFolder: originalFolder(res.PublicID),
		Size:           int64(res.Bytes),
		Width:          res.Width,
		Height:         res.Height,
		Format:         res.Format,
		CreatedAt:      res.CreatedAt,
	}, nil
}

// Delete destroys an asset by public id.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errors.Wrap(err, "storage.delete")
	}
	if res.Result != "ok" {
		return errors.Errorf("storage.delete: %s", res.Result)
	}
	return nil
}

// List returns up to 100 images, newest first. An empty subfolder lists
// every image in the account.
func (c *Client) List(ctx context.Context, subfolder string) ([]model.MediaAsset, error) {
	expression := "resource_type:image"
	if subfolder != "" {
		expression = "folder:" + c.root + "/" + subfolder + "/*"
	}

	res, err := c.cld.Admin.Search(ctx, search.Query{
		Expression: expression,
		SortBy:     []search.SortByField{{"created_at": search.Descending}},
		MaxResults: 100,
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage.search")
	}

	assets := make([]model.MediaAsset, 0, len(res.Assets))
	for _, a := range res.Assets {
		assets = append(assets, model.MediaAsset{
			ID:             a.PublicID,
			Url:            a.SecureURL,
			PublicID:       a.PublicID,
			Name:           assetName(a.PublicID),
			Folder:         UIFolder(a.PublicID),
			OriginalFolder: originalFolder(a.PublicID),
			Size:           int64(a.Bytes),
			Width:          a.Width,
			Height:         a.Height,
			Format:         a.Format,
			CreatedAt:      a.CreatedAt,
		})
	}
	return assets, nil
}
