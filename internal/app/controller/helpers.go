package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/donde/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// parseID reads a uint path parameter and answers 400 when it is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// optionalUintQuery reads an optional uint query parameter.
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func optionalFloatQuery(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// serviceErrors maps domain errors to a status and an error code. Anything
// not listed goes through the persistence error parser.
var serviceErrors = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{service.ErrCategoryNotFound, http.StatusNotFound, apperrors.CategoryNotFound, "Category not found"},
	{service.ErrProductCategoryNotFound, http.StatusBadRequest, apperrors.CategoryNotFound, "Category not found"},
	{service.ErrCategoryNameExists, http.StatusConflict, apperrors.CategoryNameExists, "A category with this name already exists"},
	{service.ErrCategoryNameEmpty, http.StatusBadRequest, apperrors.ValidationRequired, "Category name is required"},
	{service.ErrInvalidParent, http.StatusBadRequest, apperrors.CategoryInvalidParent, "Invalid parent category"},
	{service.ErrEmptyReorder, http.StatusBadRequest, apperrors.ValidationRequired, "Order list is empty"},
	{service.ErrDuplicateReorderID, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Order list contains duplicates"},
	{service.ErrPartialReorder, http.StatusBadRequest, apperrors.ReorderIncompleteSet, "Order list must contain every item of the group"},
	{service.ErrMixedParents, http.StatusBadRequest, apperrors.ReorderMixedGroups, "Order list spans several parent categories"},

	{service.ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound, "Product not found"},
	{service.ErrProductTitleRequired, http.StatusBadRequest, apperrors.ValidationRequired, "Product title is required"},
	{service.ErrProductPriceRequired, http.StatusBadRequest, apperrors.ValidationRequired, "price_usd is required"},
	{service.ErrNegativePrice, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Prices must not be negative"},
	{service.ErrSearchQueryTooShort, http.StatusBadRequest, apperrors.SearchQueryTooShort, "Search query must be at least 2 characters"},
	{service.ErrInvalidPriceRange, http.StatusBadRequest, apperrors.ValidationInvalidInput, "minPrice must not exceed maxPrice"},
	{service.ErrCurrencyNotSupported, http.StatusBadRequest, apperrors.CurrencyNotSupported, "Currency not supported"},

	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "Email is already in use"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"},
	{service.ErrAccountInactive, http.StatusForbidden, apperrors.AuthAccountInactive, "Account is inactive"},
	{service.ErrTokenExpired, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Token has been revoked"},
	{service.ErrInvalidToken, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token"},
	{util.ErrPasswordTooShort, http.StatusBadRequest, apperrors.ValidationTooShort, "Password must be at least 8 characters"},

	{service.ErrUserNotFound, http.StatusNotFound, apperrors.UserNotFound, "User not found"},
	{service.ErrInvalidRole, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid role"},
	{service.ErrInvalidStatus, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid status"},
	{service.ErrLastOwner, http.StatusConflict, apperrors.UserLastOwner, "The store must keep at least one active owner"},
	{service.ErrWrongPassword, http.StatusBadRequest, apperrors.AuthWrongPassword, "Current password is incorrect"},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest, apperrors.ValidationInvalidInput, "You cannot delete your own account"},

	{service.ErrStoreNameRequired, http.StatusBadRequest, apperrors.ValidationRequired, "Store name is required"},
	{service.ErrInvalidSetupColor, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Colours must be hex values like #c9a961"},
	{service.ErrDefaultCurrencyNotSet, http.StatusBadRequest, apperrors.CurrencyNotSupported, "Default currency must be one of the store currencies"},

	{service.ErrInvalidFileType, http.StatusBadRequest, apperrors.UploadInvalidFileType, "File type not allowed"},
	{service.ErrFileTooLarge, http.StatusBadRequest, apperrors.UploadFileTooLarge, "File is too large"},
	{service.ErrInvalidUploadFolder, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid upload folder"},
	{service.ErrFilenameRequired, http.StatusBadRequest, apperrors.ValidationRequired, "Filename is required"},
	{service.ErrUploadNotConfigured, http.StatusServiceUnavailable, apperrors.UploadNotConfigured, "File uploads are not configured"},

	{service.ErrPathRequired, http.StatusBadRequest, apperrors.ValidationRequired, "Path is required"},
	{service.ErrPathTooLong, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Path is too long"},
}

// respondServiceError writes the envelope for err and logs unexpected ones.
func respondServiceError(c *gin.Context, err error, context string) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			apperrors.RespondWithError(c, e.status, e.code, e.message)
			return
		}
	}
	middleware.GetLoggerFromContext(c).Error("Failed to "+context, err)
	apperrors.RespondWithParsedError(c, err, context)
}

// jsonETag hashes the serialized envelope.
func jsonETag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

// etagMatches reports whether an If-None-Match header names etag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// successWithETag writes the success envelope with a content hash ETag and
// answers 304 when the client already holds that version.
func successWithETag(c *gin.Context, data interface{}) {
	body, err := json.Marshal(apperrors.SuccessResponse{Success: true, Data: data})
	if err != nil {
		respondServiceError(c, err, "encode response")
		return
	}

	etag := jsonETag(body)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
