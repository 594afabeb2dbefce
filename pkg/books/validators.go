package books

import (
	"mime/multipart"

	"github.com/shelfmark/shelfmark/pkg/namedresource"
)

type CreateBookPayload struct {
	Title       string                     `json:"title" mod:"trim" validate:"required,max=300"`
	Price       string                     `json:"price" mod:"trim" validate:"required,decimal"`
	Link        *string                    `json:"link,omitempty" mod:"trim" validate:"omitempty,url,max=2000"`
	Description *string                    `json:"description,omitempty"`
	Tags        []namedresource.Descriptor `json:"tags,omitempty" validate:"omitempty,dive"`
	Authors     []namedresource.Descriptor `json:"authors,omitempty" validate:"omitempty,dive"`
}

// UpdateBookPayload distinguishes an absent nested key from an explicit empty
// list. A nil slice pointer leaves the association set untouched; a pointer
// to an empty slice clears it.
type UpdateBookPayload struct {
	Title       *string                     `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=300"`
	Price       *string                     `json:"price,omitempty" mod:"trim" validate:"omitempty,decimal"`
	Link        *string                     `json:"link,omitempty" mod:"trim" validate:"omitempty,url,max=2000"`
	Description *string                     `json:"description,omitempty"`
	Tags        *[]namedresource.Descriptor `json:"tags,omitempty" validate:"omitempty,dive"`
	Authors     *[]namedresource.Descriptor `json:"authors,omitempty" validate:"omitempty,dive"`
}

type ListBooksQuery struct {
	Tags    *string `query:"tags" json:"tags,omitempty"`
	Authors *string `query:"authors" json:"authors,omitempty"`
}

type UploadImagePayload struct {
	FormFiles map[string]*multipart.FileHeader `json:"-"`
}
