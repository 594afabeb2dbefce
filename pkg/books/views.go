package books

import (
	"path"

	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/namedresource"
)

// BookView is the list representation of a book. It carries the nested tag
// and author objects but omits the long-form fields.
type BookView struct {
	ID      int                  `json:"id"`
	Title   string               `json:"title"`
	Price   string               `json:"price"`
	Link    *string              `json:"link"`
	Tags    []namedresource.View `json:"tags"`
	Authors []namedresource.View `json:"authors"`
}

// BookDetailView adds the long-form fields to the list representation.
type BookDetailView struct {
	BookView
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func NewBookView(book *models.Book) BookView {
	return BookView{
		ID:      book.ID,
		Title:   book.Title,
		Price:   book.Price,
		Link:    book.Link,
		Tags:    namedresource.NewViews(book.Tags),
		Authors: namedresource.NewViews(book.Authors),
	}
}

func NewBookViews(books []*models.Book) []BookView {
	views := make([]BookView, len(books))
	for i, book := range books {
		views[i] = NewBookView(book)
	}
	return views
}

func NewBookDetailView(book *models.Book) BookDetailView {
	view := BookDetailView{
		BookView:    NewBookView(book),
		Description: book.Description,
	}
	if book.Image != nil {
		url := path.Join("/media/books", *book.Image)
		view.Image = &url
	}
	return view
}
