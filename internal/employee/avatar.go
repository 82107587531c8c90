package employee

import (
	"fmt"
	"net/url"
)

const generatedAvatarBase = "https://ui-avatars.com/api/"

// DeriveAvatar computes the effective avatar for a record. A non-empty
// custom URL wins and is stored as-is; otherwise the avatar falls back to a
// deterministic placeholder derived from the name and the stored custom
// value is cleared.
func DeriveAvatar(customAvatar, firstName, lastName string) (avatar string, stored *string) {
	if customAvatar != "" {
		c := customAvatar
		return c, &c
	}
	return GeneratedAvatarURL(firstName, lastName), nil
}

// GeneratedAvatarURL builds the placeholder image URL for a name.
func GeneratedAvatarURL(firstName, lastName string) string {
	return fmt.Sprintf("%s?name=%s+%s&size=200",
		generatedAvatarBase, url.QueryEscape(firstName), url.QueryEscape(lastName))
}
