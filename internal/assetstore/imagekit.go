package assetstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	imagekitAPIBase    = "https://api.imagekit.io/v1"
	imagekitUploadBase = "https://upload.imagekit.io/api/v1"
)

// ImageKitClient talks to the hosted media API. Requests authenticate
// with the private key as the basic-auth username and an empty password.
type ImageKitClient struct {
	privateKey string
	apiBase    string
	uploadBase string
	httpClient *http.Client
	log        *zap.Logger
}

var _ Store = (*ImageKitClient)(nil)

func NewImageKitClient(privateKey string, log *zap.Logger) *ImageKitClient {
	return &ImageKitClient{
		privateKey: privateKey,
		apiBase:    imagekitAPIBase,
		uploadBase: imagekitUploadBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// apiError is the error envelope the media API returns on non-2xx.
type apiError struct {
	Message string `json:"message"`
}

func (c *ImageKitClient) Upload(ctx context.Context, file, fileName, folderPath string) (Asset, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, value := range map[string]string{
		"file":              file,
		"fileName":          fileName,
		"folder":            folderPath,
		"useUniqueFileName": "false",
	} {
		if err := mw.WriteField(field, value); err != nil {
			return Asset{}, errors.Wrap(err, "imagekit: build upload form")
		}
	}
	if err := mw.Close(); err != nil {
		return Asset{}, errors.Wrap(err, "imagekit: build upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBase+"/files/upload", &body)
	if err != nil {
		return Asset{}, errors.Wrap(err, "imagekit: upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var uploaded struct {
		FileID string `json:"fileId"`
		Name   string `json:"name"`
		URL    string `json:"url"`
	}
	if err := c.do(req, &uploaded); err != nil {
		return Asset{}, errors.Wrapf(err, "imagekit: upload %q to %q", fileName, folderPath)
	}
	c.log.Debug("uploaded file", zap.String("fileId", uploaded.FileID), zap.String("folder", folderPath))
	return Asset{Name: uploaded.Name, URL: uploaded.URL, FileID: uploaded.FileID}, nil
}

func (c *ImageKitClient) DeleteFile(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.apiBase+"/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return errors.Wrap(err, "imagekit: delete file request")
	}
	if err := c.do(req, nil); err != nil {
		return errors.Wrapf(err, "imagekit: delete file %q", fileID)
	}
	return nil
}

func (c *ImageKitClient) DeleteFolder(ctx context.Context, folderPath string) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, c.apiBase+"/folder", map[string]string{
		"folderPath": folderPath,
	})
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return errors.Wrapf(err, "imagekit: delete folder %q", folderPath)
	}
	return nil
}

func (c *ImageKitClient) CreateFolder(ctx context.Context, folderName, parentPath string) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.apiBase+"/folder", map[string]string{
		"folderName":       folderName,
		"parentFolderPath": parentPath,
	})
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return errors.Wrapf(err, "imagekit: create folder %q under %q", folderName, parentPath)
	}
	return nil
}

func (c *ImageKitClient) MoveFolder(ctx context.Context, sourcePath, destinationPath string) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.apiBase+"/bulkJobs/moveFolder", map[string]string{
		"sourceFolderPath": sourcePath,
		"destinationPath":  destinationPath,
	})
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return errors.Wrapf(err, "imagekit: move folder %q to %q", sourcePath, destinationPath)
	}
	return nil
}

func (c *ImageKitClient) List(ctx context.Context, folderPath string, kind Kind) ([]Asset, error) {
	query := url.Values{}
	query.Set("path", folderPath)
	query.Set("type", string(kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/files?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "imagekit: list request")
	}

	// Folder entries carry folderId instead of fileId.
	var entries []struct {
		FileID   string `json:"fileId"`
		FolderID string `json:"folderId"`
		Name     string `json:"name"`
		URL      string `json:"url"`
	}
	if err := c.do(req, &entries); err != nil {
		return nil, errors.Wrapf(err, "imagekit: list %q", folderPath)
	}

	assets := make([]Asset, 0, len(entries))
	for _, e := range entries {
		id := e.FileID
		if id == "" {
			id = e.FolderID
		}
		assets = append(assets, Asset{Name: e.Name, URL: e.URL, FileID: id})
	}
	return assets, nil
}

func (c *ImageKitClient) jsonRequest(ctx context.Context, method, endpoint string, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "imagekit: encode request")
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "imagekit: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends the request and decodes a 2xx JSON body into out (when out is
// non-nil). 404 becomes ErrNotFound so callers can test with errors.Is.
func (c *ImageKitClient) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if b, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096)); readErr == nil {
			_ = json.Unmarshal(b, &apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
