package http

import (
	"net/http"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"
	"github.com/aussiebroadwan/voucher/pkg/httpx"
)

// requestContext captures caller audit fields for the dataset records.
func requestContext(r *http.Request) domain.RequestContext {
	return domain.RequestContext{
		IP:        httpx.IPKeyExtractor(r),
		UserAgent: r.UserAgent(),
	}
}
