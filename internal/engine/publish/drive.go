// Package publish pushes finished resumes to Google Drive and records
// applications in the tracking spreadsheet and the local database.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

const (
	docxMIME   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	folderMIME = "application/vnd.google-apps.folder"
)

// DriveStore uploads resumes into one Drive folder, found or created by
// name on first use.
type DriveStore struct {
	svc        *drive.Service
	folderName string
	folderID   string
}

// NewDriveStore builds a store from a service account credentials file.
func NewDriveStore(ctx context.Context, credentialsPath, folderName string) (*DriveStore, error) {
	svc, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("drive: service: %w", err)
	}
	return &DriveStore{svc: svc, folderName: folderName}, nil
}

// Upload puts the file into the store folder, opens it to anyone with the
// link and returns the view link.
func (s *DriveStore) Upload(ctx context.Context, path string) (string, error) {
	engine.IncrDriveUploads()

	folderID, err := s.ensureFolder(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("drive: open %s: %w", path, err)
	}
	defer f.Close()

	created, err := s.svc.Files.Create(&drive.File{
		Name:     filepath.Base(path),
		Parents:  []string{folderID},
		MimeType: docxMIME,
	}).Media(f).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive: upload %s: %w", filepath.Base(path), err)
	}

	// Anyone-with-link so the sheet row is openable from any account.
	_, err = s.svc.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		slog.Warn("drive sharing failed, link may require sign-in",
			"file", created.Id, "error", err)
	}

	slog.Debug("drive upload done", "file", filepath.Base(path), "link", created.WebViewLink)
	return created.WebViewLink, nil
}

func (s *DriveStore) ensureFolder(ctx context.Context) (string, error) {
	if s.folderID != "" {
		return s.folderID, nil
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(s.folderName), folderMIME)
	list, err := s.svc.Files.List().Q(q).Spaces("drive").
		Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive: find folder %q: %w", s.folderName, err)
	}
	if len(list.Files) > 0 {
		s.folderID = list.Files[0].Id
		return s.folderID, nil
	}

	created, err := s.svc.Files.Create(&drive.File{
		Name:     s.folderName,
		MimeType: folderMIME,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive: create folder %q: %w", s.folderName, err)
	}
	slog.Info("created drive folder", "name", s.folderName, "id", created.Id)
	s.folderID = created.Id
	return s.folderID, nil
}

// escapeQuery quotes single quotes for the Drive query language.
func escapeQuery(s string) string { return strings.ReplaceAll(s, `'`, `\'`) }
