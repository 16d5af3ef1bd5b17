package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

// UploadBatchSize is the number of files uploaded between progress reports.
const UploadBatchSize = 10

// ImageExtensions are the file types picked up from the sample directory.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".gif"}

// UploadReport summarizes a sample image upload.
type UploadReport struct {
	Found    int
	Uploaded int
	Failed   []string
	Skipped  bool
}

// FindImages returns the image files directly inside dir, sorted by name.
func FindImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// UploadImages uploads the sample images in dir to container, overwriting
// blobs of the same name. A directory that is missing or cannot be listed is
// skipped with a warning and a failed file is reported without stopping the
// upload. Only cancellation is returned as an error.
func UploadImages(ctx *provisioning.Context, dir, container, connectionString string) (*UploadReport, error) {
	const uploadPhase = "upload"
	report := &UploadReport{}

	files, err := FindImages(dir)
	if err != nil {
		msg := fmt.Sprintf("cannot list images in %s, skipping upload: %v", dir, err)
		if errors.Is(err, fs.ErrNotExist) {
			msg = fmt.Sprintf("images directory %s not found, skipping upload", dir)
		}
		provisioning.LogWarning(ctx.Observer, uploadPhase, msg)
		report.Skipped = true
		return report, nil
	}
	report.Found = len(files)
	if len(files) == 0 {
		provisioning.LogWarning(ctx.Observer, uploadPhase, fmt.Sprintf("no images found in %s", dir))
		return report, nil
	}

	ctx.Observer.Printf("[%s] Uploading %d images to %s...", uploadPhase, len(files), container)
	for start := 0; start < len(files); start += UploadBatchSize {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("upload interrupted: %w", err)
		}
		end := min(start+UploadBatchSize, len(files))
		for _, file := range files[start:end] {
			blob := filepath.Base(file)
			if _, err := ctx.Run(azure.BlobUpload(container, file, blob, connectionString), azure.RunOptions{}); err != nil {
				report.Failed = append(report.Failed, blob)
				provisioning.LogWarning(ctx.Observer, uploadPhase, fmt.Sprintf("failed to upload %s: %v", blob, err))
				continue
			}
			report.Uploaded++
		}
		ctx.Observer.Progress(uploadPhase, end, len(files))
	}

	ctx.Observer.Status(provisioning.SeveritySuccess, "Uploaded %d/%d images", report.Uploaded, report.Found)
	return report, nil
}
