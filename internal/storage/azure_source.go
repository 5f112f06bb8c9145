package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
)

// AzureBlobSource reads captures uploaded to Azure Blob Storage by the
// capture pipeline. Blob names under the prefix play the role of file
// paths.
type AzureBlobSource struct {
	client    *azblob.Client
	container string
	prefix    string
}

// NewAzureBlobSource creates a blob-backed capture source
func NewAzureBlobSource(accountName, accountKey, container, prefix string) (*AzureBlobSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewConfigurationError("invalid azure credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewConfigurationError("cannot create azure client", err)
	}

	return &AzureBlobSource{
		client:    client,
		container: container,
		prefix:    prefix,
	}, nil
}

// List returns the names of all blobs under the source prefix
func (s *AzureBlobSource) List(ctx context.Context) ([]string, error) {
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: &s.prefix,
	})

	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewConfigurationError(
				fmt.Sprintf("cannot list container %s", s.container), err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

// Open downloads one blob as a stream
func (s *AzureBlobSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("download failed for %s", name), err)
	}
	return resp.Body, nil
}
