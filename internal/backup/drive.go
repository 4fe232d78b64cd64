package backup

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	jsonMimeType   = "application/json"
)

// DriveUploader keeps the data file in a Google Drive folder, found or created by name.
type DriveUploader struct {
	service    *drive.Service
	folderName string

	mu       sync.Mutex
	folderID string
}

func NewDriveUploader(ctx context.Context, credentialsJSON []byte, folderName string, opts ...option.ClientOption) (*DriveUploader, error) {
	opts = append([]option.ClientOption{option.WithCredentialsJSON(credentialsJSON)}, opts...)
	return newDriveUploader(ctx, folderName, opts...)
}

func newDriveUploader(ctx context.Context, folderName string, opts ...option.ClientOption) (*DriveUploader, error) {
	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}
	return &DriveUploader{
		service:    driveService,
		folderName: folderName,
	}, nil
}

func (u *DriveUploader) Name() string {
	return "gdrive"
}

// Upsert updates the file by ID when it already exists in the folder, otherwise creates it.
// The returned revision is the file ID and its version.
func (u *DriveUploader) Upsert(ctx context.Context, name string, content []byte) (_ string, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.gdrive.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("folder", u.folderName),
		attribute.String("file", name),
	)

	folderID, err := u.ensureFolder(ctx)
	if err != nil {
		return "", err
	}

	existing, err := u.service.
		Files.List().
		Q(fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escapeQuery(name), folderID)).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list backup files: %w", err)
	}

	var file *drive.File
	if len(existing.Files) > 0 {
		if len(existing.Files) > 1 {
			log.Warnf("found %d backup files named %s, updating the first one", len(existing.Files), name)
		}
		file, err = u.service.
			Files.Update(existing.Files[0].Id, &drive.File{}).
			Fields("id, version").
			Media(bytes.NewReader(content)).
			Context(ctx).
			Do()
	} else {
		file, err = u.service.
			Files.Create(&drive.File{
				Name:     name,
				MimeType: jsonMimeType,
				Parents:  []string{folderID},
			}).
			Fields("id, version").
			Media(bytes.NewReader(content)).
			Context(ctx).
			Do()
	}
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	return fmt.Sprintf("%s@%d", file.Id, file.Version), nil
}

func (u *DriveUploader) ensureFolder(ctx context.Context) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.folderID != "" {
		return u.folderID, nil
	}

	folderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, escapeQuery(u.folderName))
	folders, err := u.service.
		Files.List().
		Q(folderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("find backups folder: %w", err)
	}

	switch len(folders.Files) {
	case 0:
		log.Debugf("backups folder [%s] not found, creating it", u.folderName)
		folder, err := u.service.
			Files.Create(&drive.File{
				Name:     u.folderName,
				MimeType: folderMimeType,
			}).
			Fields("id").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("create backups folder: %w", err)
		}
		u.folderID = folder.Id
	case 1:
		u.folderID = folders.Files[0].Id
	default:
		log.Warnf("found %d backups folders named %s, will take the first one", len(folders.Files), u.folderName)
		u.folderID = folders.Files[0].Id
	}

	return u.folderID, nil
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`)
}
