package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProjectPaths captures canonical locations for a chillmix project.
type ProjectPaths struct {
	Root       string
	ConfigFile string
	AudioDir   string
	AssetsDir  string
	RunsDir    string
	LogsDir    string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	return ProjectPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "chillmix.yaml"),
		AudioDir:   filepath.Join(root, "audio"),
		AssetsDir:  filepath.Join(root, "assets"),
		RunsDir:    filepath.Join(root, "runs"),
		LogsDir:    filepath.Join(root, "logs"),
	}
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureDirs creates the standard audio/assets/runs/logs hierarchy.
func (p ProjectPaths) EnsureDirs() error {
	dirs := []string{p.AudioDir, p.AssetsDir, p.RunsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RunPaths lays out the working directory for one generation run. Every
// intermediate artifact lands inside the run directory so runs never clobber
// one another and failed runs leave their evidence behind.
type RunPaths struct {
	Dir string

	DownloadDir  string
	ConcatList   string
	FullAudio    string
	TrimmedAudio string
	Background   string
	LoopVideo    string
	OverlayText  string
	Thumbnail    string
	Chapters     string
	Tracklist    string
	Mix          string
	Output       string
}

// NewRun creates a timestamped run directory under the project's runs/
// directory and returns the artifact layout inside it.
func (p ProjectPaths) NewRun(projectName string, now time.Time) (RunPaths, error) {
	dir := filepath.Join(p.RunsDir, now.Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return RunPaths{}, fmt.Errorf("create run directory: %w", err)
	}
	rp := newRunPaths(dir, projectName, now)
	if err := os.MkdirAll(rp.DownloadDir, 0o755); err != nil {
		return RunPaths{}, fmt.Errorf("create run audio directory: %w", err)
	}
	return rp, nil
}

func newRunPaths(dir, projectName string, now time.Time) RunPaths {
	name := OutputName(projectName, now)
	return RunPaths{
		Dir:          dir,
		DownloadDir:  filepath.Join(dir, "audio"),
		ConcatList:   filepath.Join(dir, "concat.txt"),
		FullAudio:    filepath.Join(dir, "audio_full.mp3"),
		TrimmedAudio: filepath.Join(dir, "audio_trimmed.mp3"),
		Background:   filepath.Join(dir, "background.png"),
		LoopVideo:    filepath.Join(dir, "loop.mp4"),
		OverlayText:  filepath.Join(dir, "overlay.txt"),
		Thumbnail:    filepath.Join(dir, "thumbnail.png"),
		Chapters:     filepath.Join(dir, "chapters.ffmeta"),
		Tracklist:    filepath.Join(dir, "tracklist.txt"),
		Mix:          filepath.Join(dir, "mix.mp4"),
		Output:       filepath.Join(dir, name+".mp4"),
	}
}

// OutputName derives the final video base name from the project name, with
// the {date} placeholder replaced by the run date.
func OutputName(projectName string, now time.Time) string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "chillmix"
	}
	date := now.Format("2006-01-02")
	if strings.Contains(name, "{date}") {
		return strings.ReplaceAll(name, "{date}", date)
	}
	return name + "_" + date
}

// ResolveIn interprets a configured path relative to the project root;
// absolute paths pass through untouched.
func ResolveIn(root, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
