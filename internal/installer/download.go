package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oshokin/thorium-updater/internal/logger"
)

// errBadHTTPStatus is returned for any non-200 download response.
var errBadHTTPStatus = errors.New("unexpected http status")

// DownloadFile fetches url into destDir under the given file name and
// returns the resulting path. Downloads are blocking and synchronous; an
// interrupted transfer leaves only the per-run temporary directory behind,
// which the caller removes on exit.
func DownloadFile(ctx context.Context, url, destDir, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	outputPath := filepath.Clean(filepath.Join(destDir, fileName))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return "", err
	}

	written, err := io.Copy(outputFile, response.Body)
	if closeErr := outputFile.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	logger.InfoKV(ctx, "Downloaded file", "path", outputPath, "bytes", written)

	return outputPath, nil
}
