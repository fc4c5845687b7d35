package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Metadata describes the published video.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// Uploader publishes finished mixes to YouTube.
type Uploader struct {
	service *youtube.Service
}

// New builds an uploader from an OAuth client secret file plus a stored user
// token. Uploads act on a channel, so a service account alone is not enough.
func New(ctx context.Context, clientSecretFile, tokenFile string) (*Uploader, error) {
	secret, err := os.ReadFile(clientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret: %w", err)
	}
	config, err := google.ConfigFromJSON(secret, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}

	tokenData, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(config.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Uploader{service: service}, nil
}

// UploadVideo publishes the video file and returns the new video ID.
func (u *Uploader) UploadVideo(ctx context.Context, videoPath string, meta Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer file.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       truncateTitle(meta.Title),
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  fallback(meta.CategoryID, "10"),
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           fallback(meta.Privacy, "private"),
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Context(ctx).Media(file)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("upload video: %w", err)
	}
	return response.Id, nil
}

// SetThumbnail attaches a custom thumbnail to an uploaded video.
func (u *Uploader) SetThumbnail(ctx context.Context, videoID, thumbnailPath string) error {
	file, err := os.Open(thumbnailPath)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer file.Close()

	_, err = u.service.Thumbnails.Set(videoID).Context(ctx).Media(file).Do()
	if err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	return nil
}

// truncateTitle keeps the title inside YouTube's 100 character limit.
func truncateTitle(title string) string {
	if len(title) > 100 {
		return title[:97] + "..."
	}
	return title
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
