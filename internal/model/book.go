package model

// BookFormat enumerates the file formats a catalog entry can declare.
// Formats are labels only; book files are never parsed.
type BookFormat string

const (
	BookFormatEPUB BookFormat = "EPUB"
	BookFormatPDF  BookFormat = "PDF"
	BookFormatDOCX BookFormat = "DOCX"
	BookFormatTXT  BookFormat = "TXT"
)

// Book represents a catalog entry in the library.
type Book struct {
	ID         int        `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Author     string     `json:"author" yaml:"author"`
	Category   string     `json:"category" yaml:"category"`
	Format     BookFormat `json:"format" yaml:"format"`
	Progress   int        `json:"progress" yaml:"progress"`
	Pages      int        `json:"pages" yaml:"pages"`
	Language   string     `json:"language" yaml:"language"`
	CoverColor string     `json:"cover_color" yaml:"cover_color"`
}

// BookExcerpt is the readable passage served to the reader view.
type BookExcerpt struct {
	BookID      int    `json:"book_id" yaml:"book_id"`
	Chapter     string `json:"chapter" yaml:"chapter"`
	CurrentPage int    `json:"current_page" yaml:"current_page"`
	Text        string `json:"text" yaml:"text"`
}

// ReaderView combines a book with its current excerpt.
type ReaderView struct {
	Book       Book   `json:"book"`
	Chapter    string `json:"chapter"`
	Page       int    `json:"current_page"`
	TotalPages int    `json:"total_pages"`
	Text       string `json:"text"`
}

// LibraryQuery holds the optional search and category filter.
type LibraryQuery struct {
	Search   string `form:"q" binding:"max=200"`
	Category string `form:"category" binding:"max=100"`
}
