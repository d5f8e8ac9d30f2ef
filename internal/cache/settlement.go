package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/homemart-shop/internal/models"
)

const settlementCacheTTL = 5 * time.Minute

func settlementKey(buyerName, buyerPhone string) string {
	return fmt.Sprintf("settlement:group:%s:%s", buyerName, buyerPhone)
}

// GetSettlement 获取买家分组结算缓存
func GetSettlement(ctx context.Context, buyerName, buyerPhone string) (*models.SettlementRecord, bool, error) {
	if buyerName == "" || buyerPhone == "" {
		return nil, false, nil
	}
	var record models.SettlementRecord
	hit, err := GetJSON(ctx, settlementKey(buyerName, buyerPhone), &record)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &record, true, nil
}

// SetSettlement 写入买家分组结算缓存
func SetSettlement(ctx context.Context, record *models.SettlementRecord) error {
	if record == nil || record.BuyerName == "" || record.BuyerPhone == "" {
		return nil
	}
	return SetJSON(ctx, settlementKey(record.BuyerName, record.BuyerPhone), record, settlementCacheTTL)
}

// DelSettlement 删除买家分组结算缓存
func DelSettlement(ctx context.Context, buyerName, buyerPhone string) error {
	if buyerName == "" || buyerPhone == "" {
		return nil
	}
	return Del(ctx, settlementKey(buyerName, buyerPhone))
}
