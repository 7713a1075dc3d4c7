// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"github.com/labstack/echo/v4"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/handlers"
)

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	// Static files
	e.Static("/static", "static")

	e.GET("/health", h.Health)
	e.GET("/", h.Home)

	// Signup and activation
	e.GET("/signup", h.SignupPage)
	e.POST("/signup", h.Signup)
	e.GET("/activation-sent", h.ActivationSent)
	e.GET("/activate/:uid/:token", h.Activate)
	e.GET("/resend-activation", h.ResendActivationPage)
	e.POST("/resend-activation", h.ResendActivation)

	// Login
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout)
	e.GET("/oauth/:provider", h.OAuthStart)
	e.GET("/oauth/:provider/callback", h.OAuthCallback)

	// Public catalog
	e.GET("/books", h.Books)
	e.GET("/books/:id", h.BookDetail)
	e.GET("/authors", h.Authors)
	e.GET("/authors/:id", h.AuthorDetail)

	// Borrower pages
	e.GET("/my-borrowed", h.MyBorrowed, requireAuth)

	// Staff pages
	staff := e.Group("", requireAuth, requireStaff)
	staff.GET("/borrowed", h.AllBorrowed)
	staff.GET("/copies", h.Copies)
	staff.GET("/copies/new", h.NewCopyPage)
	staff.POST("/copies/new", h.CreateCopy)
	staff.GET("/copies/:id", h.CopyDetail)
	staff.POST("/copies/:id", h.UpdateCopy)
	staff.GET("/copies/:id/renew", h.RenewPage)
	staff.POST("/copies/:id/renew", h.Renew)
	staff.GET("/copies/:id/delete", h.DeleteCopyPage)
	staff.POST("/copies/:id/delete", h.DeleteCopy)

	staff.GET("/authors/new", h.NewAuthorPage)
	staff.POST("/authors/new", h.CreateAuthor)
	staff.GET("/authors/:id/edit", h.EditAuthorPage)
	staff.POST("/authors/:id/edit", h.UpdateAuthor)
	staff.GET("/authors/:id/delete", h.DeleteAuthorPage)
	staff.POST("/authors/:id/delete", h.DeleteAuthor)

	staff.GET("/books/new", h.NewBookPage)
	staff.POST("/books/new", h.CreateBook)
	staff.GET("/books/:id/edit", h.EditBookPage)
	staff.POST("/books/:id/edit", h.UpdateBook)
	staff.GET("/books/:id/delete", h.DeleteBookPage)
	staff.POST("/books/:id/delete", h.DeleteBook)

	staff.GET("/review", h.ReviewQueue)
	staff.GET("/review/:id", h.ReviewPage)
	staff.POST("/review/:id", h.Review)
}
