package catalog

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const descriptionFileName = "description.txt"

// encodeDescription prepares description text for upload: UTF-8 bytes,
// base64-encoded, as the store's upload endpoint expects inline content.
func encodeDescription(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// fetchDescription reads the stored description back. The store serves
// the file bytes as-is, so a plain GET returns the raw text with no
// base64 round trip (asymmetric with encodeDescription on purpose).
func (s *Service) fetchDescription(ctx context.Context, fileURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "build description request")
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "fetch description %q", fileURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("fetch description %q: status %d", fileURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read description body")
	}
	return string(body), nil
}
