package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the API distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a client-safe description of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// IsUniqueViolation reports whether err is a duplicate-key failure, either
// translated by gorm or raw from the Postgres driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// drivers without error translation
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// ParseError turns a repository error into an ErrorInfo. context names the
// operation ("create category", "update user", ...) and only shapes messages.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(context)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateKeyInfo(pgErr.ConstraintName + " " + pgErr.Detail)
		case pgForeignKeyViolation:
			return foreignKeyInfo(pgErr.Detail)
		case pgNotNullViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: requiredMessage(pgErr.ColumnName)}
		case pgCheckViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Invalid input"}
		}
	}

	switch {
	case IsUniqueViolation(err):
		return duplicateKeyInfo(err.Error())
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKeyInfo(err.Error())
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalDatabase, Message: defaultMessage(context)}
}

func duplicateKeyInfo(detail string) ErrorInfo {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "email"):
		return ErrorInfo{Status: http.StatusConflict, Code: AuthEmailAlreadyExists, Message: "Email is already in use"}
	case strings.Contains(d, "categories") || strings.Contains(d, "name"):
		return ErrorInfo{Status: http.StatusConflict, Code: CategoryNameExists, Message: "A category with this name already exists"}
	}
	return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func foreignKeyInfo(detail string) ErrorInfo {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "still referenced"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceConflict, Message: "Resource is still referenced by other data"}
	case strings.Contains(d, "category_id") || strings.Contains(d, "parent_id"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: CategoryNotFound, Message: "Referenced category does not exist"}
	}
	return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceNotFound, Message: "Referenced resource does not exist"}
}

func requiredMessage(column string) string {
	if column == "" {
		return "A required field is missing"
	}
	return column + " is required"
}

func notFoundMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "category"):
		return "Category not found"
	case strings.Contains(c, "product"):
		return "Product not found"
	case strings.Contains(c, "user"):
		return "User not found"
	}
	return "Requested resource not found"
}

func defaultMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "create"):
		return "Failed to create. Please try again later"
	case strings.Contains(c, "update"), strings.Contains(c, "reorder"), strings.Contains(c, "move"):
		return "Failed to update. Please try again later"
	case strings.Contains(c, "delete"):
		return "Failed to delete. Please try again later"
	}
	return "Something went wrong. Please try again later"
}
