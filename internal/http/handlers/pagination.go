package handlers

import (
	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultPageSize = 10

// PageQuery is the page/size pair shared by list endpoints. Page is zero-based.
type PageQuery struct {
	Page int `form:"page" binding:"min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

func pageWindow(page, size int) (limit, offset, outSize int) {
	if size <= 0 {
		size = defaultPageSize
	}
	if page < 0 {
		page = 0
	}
	return size, page * size, size
}

func pageResponse(items interface{}, count, total, page, size int) gin.H {
	return gin.H{
		"items": items,
		"count": count,
		"total": total,
		"page":  page,
		"size":  size,
	}
}

// mustIdentity returns the caller set by RequireAuth; routes reaching a
// handler without one are answered 401.
func mustIdentity(ctx *gin.Context) (auth.Identity, bool) {
	id, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx)
		return auth.Identity{}, false
	}
	return id, true
}

// validID answers 404 for ids that cannot name a stored record.
func validID(ctx *gin.Context, id, notFoundMsg string) bool {
	if uuid.Validate(id) != nil {
		RespondNotFound(ctx, notFoundMsg)
		return false
	}
	return true
}
