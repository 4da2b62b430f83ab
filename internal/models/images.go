package models

// Placeholder images used when an entity has no image of its own.
const (
	DefaultUserImage     = "default/user.jpg"
	DefaultCategoryImage = "default/category.jpg"
	DefaultPostImage     = "default/post.jpg"
)

func imageOr(image *string, fallback string) string {
	if image == nil || *image == "" {
		return fallback
	}
	return *image
}
