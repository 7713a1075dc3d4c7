// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/appcontext"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/catalog"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/templates"
)

// dateLayout is the wire format of HTML date inputs.
const dateLayout = "2006-01-02"

// Books renders the paginated book list.
func (h *Handlers) Books(c echo.Context) error {
	books, pag, err := h.catalog.Books(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.BookList(books, pag))
}

// BookDetail renders one book with its copies.
func (h *Handlers) BookDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return NotFound(c)
	}

	book, copies, err := h.catalog.Book(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound(c)
		}
		return err
	}
	return Render(c, http.StatusOK, templates.BookDetail(*book, copies))
}

// Authors renders the paginated author list.
func (h *Handlers) Authors(c echo.Context) error {
	authors, pag, err := h.catalog.Authors(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.AuthorList(authors, pag))
}

// AuthorDetail renders one author with their books.
func (h *Handlers) AuthorDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return NotFound(c)
	}

	author, books, err := h.catalog.Author(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound(c)
		}
		return err
	}
	return Render(c, http.StatusOK, templates.AuthorDetail(*author, books))
}

// Copies renders the paginated copy list for staff.
func (h *Handlers) Copies(c echo.Context) error {
	copies, pag, err := h.catalog.Copies(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.CopyList(copies, pag))
}

// CopyDetail renders one copy with its edit form.
func (h *Handlers) CopyDetail(c echo.Context) error {
	copy, err := h.copyFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	return Render(c, http.StatusOK, templates.CopyDetail(*copy, copyForm(copy)))
}

// UpdateCopy saves the copy edit form.
func (h *Handlers) UpdateCopy(c echo.Context) error {
	copy, err := h.copyFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	form := templates.CopyForm{
		Imprint:    c.FormValue("imprint"),
		Status:     c.FormValue("status"),
		DueBack:    c.FormValue("due_back"),
		BorrowerID: c.FormValue("borrower_id"),
	}
	if err := applyCopyForm(copy, form); err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return Render(c, http.StatusUnprocessableEntity, templates.CopyDetail(*copy, form))
	}

	if err := h.catalog.UpdateCopy(c.Request().Context(), copy); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/copies/"+copy.ID.String())
}

// MyBorrowed renders the logged-in user's loans.
func (h *Handlers) MyBorrowed(c echo.Context) error {
	user := appcontext.GetUser(c.Request().Context())
	copies, err := h.catalog.MyBorrowed(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.MyBorrowed(copies))
}

// AllBorrowed renders all copies on loan, for staff.
func (h *Handlers) AllBorrowed(c echo.Context) error {
	copies, err := h.catalog.AllBorrowed(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.AllBorrowed(copies))
}

// RenewPage renders the renewal form with the proposed date prefilled.
func (h *Handlers) RenewPage(c echo.Context) error {
	copy, err := h.copyFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	form := templates.RenewForm{DueBack: h.catalog.DefaultRenewalDate().Format(dateLayout)}
	return Render(c, http.StatusOK, templates.Renew(*copy, form))
}

// Renew applies a renewal date to a loaned copy.
func (h *Handlers) Renew(c echo.Context) error {
	ctx := c.Request().Context()

	copy, err := h.copyFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	form := templates.RenewForm{DueBack: c.FormValue("due_back")}
	dueBack, err := time.Parse(dateLayout, form.DueBack)
	if err != nil {
		form.Error = i18n.T(ctx, "error_invalid_form")
		return Render(c, http.StatusUnprocessableEntity, templates.Renew(*copy, form))
	}

	err = h.catalog.RenewCopy(ctx, copy.ID, dueBack)
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, "/borrowed")
	case errors.Is(err, catalog.ErrRenewalInPast):
		form.Error = i18n.T(ctx, "error_renewal_in_past")
	case errors.Is(err, catalog.ErrRenewalTooFar):
		form.Error = i18n.TData(ctx, "error_renewal_too_far", map[string]any{"Weeks": 4})
	case errors.Is(err, catalog.ErrNotOnLoan):
		form.Error = i18n.T(ctx, "error_copy_not_on_loan")
	default:
		return err
	}
	return Render(c, http.StatusUnprocessableEntity, templates.Renew(*copy, form))
}

// ReviewQueue renders the books still awaiting a review.
func (h *Handlers) ReviewQueue(c echo.Context) error {
	books, err := h.catalog.UnreviewedBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.ReviewQueue(books))
}

// ReviewPage renders the review form for one book.
func (h *Handlers) ReviewPage(c echo.Context) error {
	book, err := h.bookFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	return Render(c, http.StatusOK, templates.Review(*book, templates.ReviewForm{}))
}

// Review saves a book review.
func (h *Handlers) Review(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	form := templates.ReviewForm{
		Review:      c.FormValue("review"),
		IsFavourite: c.FormValue("is_favourite") == "true",
	}

	reviewer := appcontext.GetUser(ctx)
	err = h.catalog.ReviewBook(ctx, book.ID, reviewer.ID, form.Review, form.IsFavourite)

	var tooShort *catalog.ReviewTooShortError
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/books/%d", book.ID))
	case errors.As(err, &tooShort):
		form.Error = i18n.TData(ctx, "error_review_too_short", map[string]any{
			"Min":    tooShort.Min,
			"Length": tooShort.Length,
		})
	default:
		return err
	}
	return Render(c, http.StatusUnprocessableEntity, templates.Review(*book, form))
}

// NewAuthorPage renders the empty author form.
func (h *Handlers) NewAuthorPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.AuthorFormPage("/authors/new", templates.AuthorForm{}))
}

// CreateAuthor saves a new author.
func (h *Handlers) CreateAuthor(c echo.Context) error {
	author := &models.Author{}
	form, err := bindAuthorForm(c, author)
	if err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return Render(c, http.StatusUnprocessableEntity, templates.AuthorFormPage("/authors/new", form))
	}

	if err := h.catalog.CreateAuthor(c.Request().Context(), author); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/authors/%d", author.ID))
}

// EditAuthorPage renders the prefilled author form.
func (h *Handlers) EditAuthorPage(c echo.Context) error {
	author, err := h.authorFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	form := templates.AuthorForm{
		FirstName:   author.FirstName,
		LastName:    author.LastName,
		DateOfBirth: formatOptionalDate(author.DateOfBirth),
		DateOfDeath: formatOptionalDate(author.DateOfDeath),
	}
	action := fmt.Sprintf("/authors/%d/edit", author.ID)
	return Render(c, http.StatusOK, templates.AuthorFormPage(action, form))
}

// UpdateAuthor saves edits to an author.
func (h *Handlers) UpdateAuthor(c echo.Context) error {
	author, err := h.authorFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	action := fmt.Sprintf("/authors/%d/edit", author.ID)
	form, err := bindAuthorForm(c, author)
	if err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return Render(c, http.StatusUnprocessableEntity, templates.AuthorFormPage(action, form))
	}

	if err := h.catalog.UpdateAuthor(c.Request().Context(), author); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/authors/%d", author.ID))
}

// DeleteAuthorPage asks for confirmation before deleting an author.
func (h *Handlers) DeleteAuthorPage(c echo.Context) error {
	author, err := h.authorFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	action := fmt.Sprintf("/authors/%d/delete", author.ID)
	return Render(c, http.StatusOK, templates.ConfirmDelete(author.DisplayName(), action))
}

// DeleteAuthor removes an author.
func (h *Handlers) DeleteAuthor(c echo.Context) error {
	author, err := h.authorFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	if err := h.catalog.DeleteAuthor(c.Request().Context(), author.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/authors")
}

// NewBookPage renders the empty book form.
func (h *Handlers) NewBookPage(c echo.Context) error {
	return h.renderBookForm(c, http.StatusOK, "/books/new", templates.BookForm{})
}

// CreateBook saves a new book.
func (h *Handlers) CreateBook(c echo.Context) error {
	book := &models.Book{}
	form, categoryIDs, err := bindBookForm(c, book)
	if err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return h.renderBookForm(c, http.StatusUnprocessableEntity, "/books/new", form)
	}

	if err := h.catalog.CreateBook(c.Request().Context(), book, categoryIDs); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/books/%d", book.ID))
}

// EditBookPage renders the prefilled book form.
func (h *Handlers) EditBookPage(c echo.Context) error {
	book, err := h.bookFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	form := templates.BookForm{
		Title:     book.Title,
		CoverPath: book.CoverPath,
	}
	if book.AuthorID != nil {
		form.AuthorID = strconv.FormatInt(*book.AuthorID, 10)
	}
	for _, cat := range book.Categories {
		form.CategoryIDs = append(form.CategoryIDs, strconv.FormatInt(cat.ID, 10))
	}

	action := fmt.Sprintf("/books/%d/edit", book.ID)
	return h.renderBookForm(c, http.StatusOK, action, form)
}

// UpdateBook saves edits to a book.
func (h *Handlers) UpdateBook(c echo.Context) error {
	book, err := h.bookFromPath(c)
	if err != nil {
		return NotFound(c)
	}

	action := fmt.Sprintf("/books/%d/edit", book.ID)
	form, categoryIDs, err := bindBookForm(c, book)
	if err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return h.renderBookForm(c, http.StatusUnprocessableEntity, action, form)
	}

	if err := h.catalog.UpdateBook(c.Request().Context(), book, categoryIDs); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/books/%d", book.ID))
}

// DeleteBookPage asks for confirmation before deleting a book.
func (h *Handlers) DeleteBookPage(c echo.Context) error {
	book, err := h.bookFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	action := fmt.Sprintf("/books/%d/delete", book.ID)
	return Render(c, http.StatusOK, templates.ConfirmDelete(book.Title, action))
}

// DeleteBook removes a book.
func (h *Handlers) DeleteBook(c echo.Context) error {
	book, err := h.bookFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	if err := h.catalog.DeleteBook(c.Request().Context(), book.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/books")
}

// NewCopyPage renders the empty copy form.
func (h *Handlers) NewCopyPage(c echo.Context) error {
	return h.renderCopyForm(c, http.StatusOK, templates.CopyForm{Status: models.StatusMaintenance})
}

// CreateCopy saves a new circulating copy.
func (h *Handlers) CreateCopy(c echo.Context) error {
	copy := &models.BookCopy{}

	form := templates.CopyForm{
		BookID:     c.FormValue("book_id"),
		Imprint:    c.FormValue("imprint"),
		Status:     c.FormValue("status"),
		DueBack:    c.FormValue("due_back"),
		BorrowerID: c.FormValue("borrower_id"),
	}

	bookID, err := strconv.ParseInt(form.BookID, 10, 64)
	if err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return h.renderCopyForm(c, http.StatusUnprocessableEntity, form)
	}
	copy.BookID = &bookID

	if err := applyCopyForm(copy, form); err != nil {
		form.Error = i18n.T(c.Request().Context(), "error_invalid_form")
		return h.renderCopyForm(c, http.StatusUnprocessableEntity, form)
	}

	if err := h.catalog.CreateCopy(c.Request().Context(), copy); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/copies/"+copy.ID.String())
}

// DeleteCopyPage asks for confirmation before deleting a copy.
func (h *Handlers) DeleteCopyPage(c echo.Context) error {
	copy, err := h.copyFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	what := copy.Imprint
	if copy.Book != nil {
		what = copy.Book.Title + " — " + copy.Imprint
	}
	return Render(c, http.StatusOK, templates.ConfirmDelete(what, "/copies/"+copy.ID.String()+"/delete"))
}

// DeleteCopy removes a copy.
func (h *Handlers) DeleteCopy(c echo.Context) error {
	copy, err := h.copyFromPath(c)
	if err != nil {
		return NotFound(c)
	}
	if err := h.catalog.DeleteCopy(c.Request().Context(), copy.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/copies")
}

func (h *Handlers) renderBookForm(c echo.Context, status int, action string, form templates.BookForm) error {
	authors, err := h.catalog.AllAuthors(c.Request().Context())
	if err != nil {
		return err
	}
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, status, templates.BookFormPage(action, form, authors, categories))
}

func (h *Handlers) renderCopyForm(c echo.Context, status int, form templates.CopyForm) error {
	books, err := h.catalog.AllBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, status, templates.CopyFormPage("/copies/new", form, books))
}

func (h *Handlers) authorFromPath(c echo.Context) (*models.Author, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	author, _, err := h.catalog.Author(c.Request().Context(), id)
	return author, err
}

func (h *Handlers) bookFromPath(c echo.Context) (*models.Book, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	book, _, err := h.catalog.Book(c.Request().Context(), id)
	return book, err
}

func (h *Handlers) copyFromPath(c echo.Context) (*models.BookCopy, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, err
	}
	return h.catalog.Copy(c.Request().Context(), id)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func bindAuthorForm(c echo.Context, author *models.Author) (templates.AuthorForm, error) {
	form := templates.AuthorForm{
		FirstName:   c.FormValue("first_name"),
		LastName:    c.FormValue("last_name"),
		DateOfBirth: c.FormValue("date_of_birth"),
		DateOfDeath: c.FormValue("date_of_death"),
	}

	if form.FirstName == "" || form.LastName == "" {
		return form, fmt.Errorf("first and last name are required")
	}

	born, err := parseOptionalDate(form.DateOfBirth)
	if err != nil {
		return form, err
	}
	died, err := parseOptionalDate(form.DateOfDeath)
	if err != nil {
		return form, err
	}

	author.FirstName = form.FirstName
	author.LastName = form.LastName
	author.DateOfBirth = born
	author.DateOfDeath = died
	return form, nil
}

func bindBookForm(c echo.Context, book *models.Book) (templates.BookForm, []int64, error) {
	values, _ := c.FormParams()
	form := templates.BookForm{
		Title:       c.FormValue("title"),
		AuthorID:    c.FormValue("author_id"),
		CoverPath:   c.FormValue("cover_path"),
		CategoryIDs: values["category_ids"],
	}

	if form.Title == "" {
		return form, nil, fmt.Errorf("title is required")
	}

	book.Title = form.Title
	book.CoverPath = form.CoverPath
	book.AuthorID = nil
	if form.AuthorID != "" {
		authorID, err := strconv.ParseInt(form.AuthorID, 10, 64)
		if err != nil {
			return form, nil, err
		}
		book.AuthorID = &authorID
	}

	categoryIDs := make([]int64, 0, len(form.CategoryIDs))
	for _, raw := range form.CategoryIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return form, nil, err
		}
		categoryIDs = append(categoryIDs, id)
	}

	return form, categoryIDs, nil
}

func applyCopyForm(copy *models.BookCopy, form templates.CopyForm) error {
	if form.Imprint == "" {
		return fmt.Errorf("imprint is required")
	}
	switch form.Status {
	case models.StatusMaintenance, models.StatusOnLoan, models.StatusAvailable, models.StatusReserved:
	default:
		return fmt.Errorf("unknown status %q", form.Status)
	}

	dueBack, err := parseOptionalDate(form.DueBack)
	if err != nil {
		return err
	}

	copy.Imprint = form.Imprint
	copy.Status = form.Status
	copy.DueBack = dueBack
	copy.BorrowerID = nil
	if form.BorrowerID != "" {
		borrowerID, err := strconv.ParseInt(form.BorrowerID, 10, 64)
		if err != nil {
			return err
		}
		copy.BorrowerID = &borrowerID
	}
	return nil
}

func copyForm(copy *models.BookCopy) templates.CopyForm {
	form := templates.CopyForm{
		Imprint: copy.Imprint,
		Status:  copy.Status,
		DueBack: formatOptionalDate(copy.DueBack),
	}
	if copy.BookID != nil {
		form.BookID = strconv.FormatInt(*copy.BookID, 10)
	}
	if copy.BorrowerID != nil {
		form.BorrowerID = strconv.FormatInt(*copy.BorrowerID, 10)
	}
	return form
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
