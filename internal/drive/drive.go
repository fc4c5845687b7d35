package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// File is one audio file listed from a Drive folder.
type File struct {
	ID   string
	Name string
}

// Client lists and downloads audio from a Google Drive folder.
type Client struct {
	service *drive.Service
}

// New builds a read-only Drive client from a service account key file.
func New(ctx context.Context, serviceAccountFile string) (*Client, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// ListAudio returns the MP3 files in a folder, ordered by the requested key.
// Supported orderings are "name" and "modifiedTime"; anything else falls back
// to name so the playlist stays deterministic.
func (c *Client) ListAudio(ctx context.Context, folderID, ordering string) ([]File, error) {
	orderBy := "name"
	if strings.TrimSpace(ordering) == "modifiedTime" {
		orderBy = "modifiedTime"
	}

	query := fmt.Sprintf("'%s' in parents and mimeType='audio/mpeg' and trashed=false", folderID)

	var files []File
	pageToken := ""
	for {
		call := c.service.Files.List().
			Context(ctx).
			Q(query).
			OrderBy(orderBy).
			Fields("nextPageToken, files(id, name)").
			PageSize(200)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}
		for _, f := range page.Files {
			files = append(files, File{ID: f.Id, Name: f.Name})
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return files, nil
}

// Download fetches one file into destDir, keeping its Drive name, and returns
// the local path. An existing file with the same name is reused untouched so
// repeated runs do not re-download the library.
func (c *Client) Download(ctx context.Context, file File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Base(file.Name))
	if _, err := os.Stat(destPath); err == nil {
		return destPath, nil
	}

	resp, err := c.service.Files.Get(file.ID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("download %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("write %s: %w", destPath, err)
	}
	return destPath, nil
}
