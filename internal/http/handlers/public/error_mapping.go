package public

import (
	"errors"

	"github.com/homemart-shop/internal/http/handlers/shared"
	"github.com/homemart-shop/internal/http/response"
	"github.com/homemart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return shared.NormalizePagination(page, pageSize)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var orderAccessErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, key: "error.order_item_invalid"},
}

var cancellationRequestErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrCancellationPending, code: response.CodeBadRequest, key: "error.cancellation_pending"},
	{target: service.ErrCancelNotAllowed, code: response.CodeBadRequest, key: "error.cancel_not_allowed"},
}

var refundRequestErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrRefundPhotoRequired, code: response.CodeBadRequest, key: "error.refund_photo_required"},
	{target: service.ErrRefundPending, code: response.CodeBadRequest, key: "error.refund_pending"},
	{target: service.ErrRefundNotAllowed, code: response.CodeBadRequest, key: "error.refund_not_allowed"},
}

var settlementFetchErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrSettlementNotFound, code: response.CodeNotFound, key: "error.settlement_not_found"},
}

func respondOrderAccessError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderAccessErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondCancellationRequestError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cancellationRequestErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondRefundRequestError(c *gin.Context, err error) {
	respondWithMappedError(c, err, refundRequestErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondSettlementFetchError(c *gin.Context, err error) {
	respondWithMappedError(c, err, settlementFetchErrorRules, response.CodeInternal, "error.settlement_fetch_failed")
}
