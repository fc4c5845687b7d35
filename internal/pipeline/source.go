package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chillmix/internal/drive"
)

// AudioSource yields the local paths of the audio tracks for one run, already
// ordered the way the playlist should play them.
type AudioSource interface {
	Collect(ctx context.Context, destDir string) ([]string, error)
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// LocalSource reads tracks from a folder on disk. Nothing is copied; the
// playlist references the files in place.
type LocalSource struct {
	Folder    string
	Recursive bool
	Ordering  string
}

func (s LocalSource) Collect(_ context.Context, _ string) ([]string, error) {
	type entry struct {
		path    string
		modTime int64
	}
	var entries []entry

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !s.Recursive && path != s.Folder {
				return fs.SkipDir
			}
			return nil
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, entry{path: path, modTime: info.ModTime().UnixNano()})
		return nil
	}
	if err := filepath.WalkDir(s.Folder, walk); err != nil {
		return nil, fmt.Errorf("scan audio folder %s: %w", s.Folder, err)
	}

	if strings.TrimSpace(s.Ordering) == "modifiedTime" {
		sort.Slice(entries, func(i, j int) bool { return entries[i].modTime < entries[j].modTime })
	} else {
		sort.Slice(entries, func(i, j int) bool {
			return filepath.Base(entries[i].path) < filepath.Base(entries[j].path)
		})
	}

	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.path
	}
	return files, nil
}

// DriveSource lists a Google Drive folder and downloads each track into the
// run directory.
type DriveSource struct {
	Client   *drive.Client
	FolderID string
	Ordering string
}

func (s DriveSource) Collect(ctx context.Context, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	listed, err := s.Client.ListAudio(ctx, s.FolderID, s.Ordering)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(listed))
	for _, f := range listed {
		path, err := s.Client.Download(ctx, f, destDir)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}
