package services

import (
	"fmt"
	"strings"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/storage"
)

func populateProfileAvatarURL(profile *models.Profile, uploader storage.FileUploader) {
	if profile == nil || uploader == nil {
		return
	}
	profile.PasswordHash = ""
	if profile.AvatarKey != nil && *profile.AvatarKey != "" {
		url := uploader.GetPublicURL(*profile.AvatarKey)
		if url != "" {
			profile.AvatarURL = &url
		}
	}
}

func populateParticipantAvatars(participants []models.Participant, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for i := range participants {
		populateProfileAvatarURL(participants[i].Profile, uploader)
	}
}

// GetExtensionFromContentType maps image content types to file extensions for
// object keys.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}
