package api

// CreateLinkRequest is the request body for adding a link.
type CreateLinkRequest struct {
	CategoryID string `json:"categoryId" example:"work" validate:"required"`
	Title      string `json:"title" example:"OA" validate:"required"`
	URL        string `json:"url" example:"https://oa-example.com" validate:"required"`
}

// UpdateLinkRequest is the request body for editing a link in place.
type UpdateLinkRequest struct {
	Title string `json:"title" example:"OA" validate:"required"`
	URL   string `json:"url" example:"https://oa-example.com" validate:"required"`
}

// MoveLinkRequest is the request body for moving a link between categories.
type MoveLinkRequest struct {
	LinkID        string `json:"linkId" example:"1700000000000" validate:"required"`
	OldCategoryID string `json:"oldCategoryId" example:"work" validate:"required"`
	NewCategoryID string `json:"newCategoryId" example:"demo" validate:"required"`
	Title         string `json:"title" example:"OA" validate:"required"`
	URL           string `json:"url" example:"https://oa-example.com" validate:"required"`
}

// CreateCategoryRequest is the request body for adding a category.
type CreateCategoryRequest struct {
	ID   string `json:"id" example:"work" validate:"required"`
	Name string `json:"name" example:"Work" validate:"required"`
}

// RenameCategoryRequest is the request body for renaming a category.
type RenameCategoryRequest struct {
	Name string `json:"name" example:"Office" validate:"required"`
}

// VerifyRequest carries the candidate admin password.
type VerifyRequest struct {
	Password string `json:"password" validate:"required"`
}

// VerifyResponse is returned after a successful password verification.
// ExpiresAt is the token expiry in unix milliseconds, matching what the
// browser persists in local storage.
type VerifyResponse struct {
	Success   bool   `json:"success" validate:"required"`
	Token     string `json:"token" validate:"required"`
	ExpiresAt int64  `json:"expiresAt" validate:"required"`
}

// ChangePasswordRequest carries its own token because the browser submits
// this form outside the normal authorized-fetch path.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	Token           string `json:"token" validate:"required"`
}

// CheckLinksRequest is a batch of URLs to probe.
type CheckLinksRequest struct {
	URLs []string `json:"urls" validate:"required"`
}

// UploadWallpaperRequest carries either a base64 image data URI or a plain
// http(s) URL.
type UploadWallpaperRequest struct {
	ImageData string `json:"imageData" validate:"required"`
	FileName  string `json:"fileName,omitempty"`
}

// UploadWallpaperResponse reports where an accepted wallpaper ended up.
type UploadWallpaperResponse struct {
	Success       bool   `json:"success" validate:"required"`
	WallpaperURL  string `json:"wallpaperUrl" validate:"required"`
	IsExternalURL bool   `json:"isExternalUrl"`
}

// successResponse is the generic mutation acknowledgement.
type successResponse struct {
	Success bool `json:"success"`
}
