package main

import (
	"fmt"
	"os"
	"time"

	"github.com/homemart-shop/internal/config"
	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/logger"
	"github.com/homemart-shop/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin(
		os.Getenv("HM_DEFAULT_ADMIN_USERNAME"),
		os.Getenv("HM_DEFAULT_ADMIN_PASSWORD"),
	); err != nil {
		stdLog.Fatalf("Failed to init default admin: %v", err)
	}

	// 演示买家账号
	demoUser := seedDemoUser(stdLog.Printf)
	if demoUser == nil {
		stdLog.Fatalf("Failed to seed demo user")
	}

	// 演示订单：覆盖各个规范状态
	now := time.Now()
	orders := []struct {
		OrderNo    string
		Status     string
		TrackingNo string
		CreatedAgo time.Duration
		Items      []models.OrderItem
	}{
		{
			OrderNo:    "HMSEED0001",
			Status:     constants.OrderStatusPending,
			CreatedAgo: 2 * time.Hour,
			Items: []models.OrderItem{
				itemOf(1001, "保温杯", "500ml 白色", 39.90, 2),
			},
		},
		{
			OrderNo:    "HMSEED0002",
			Status:     constants.OrderStatusProcessing,
			CreatedAgo: 26 * time.Hour,
			Items: []models.OrderItem{
				itemOf(1002, "四件套床品", "1.8m 灰色", 229.00, 1),
				itemOf(1003, "记忆棉枕头", "", 89.00, 2),
			},
		},
		{
			OrderNo:    "HMSEED0003",
			Status:     constants.OrderStatusShipped,
			TrackingNo: "SF1357924680",
			CreatedAgo: 3 * 24 * time.Hour,
			Items: []models.OrderItem{
				itemOf(1004, "落地风扇", "机械款", 159.00, 1),
			},
		},
		{
			OrderNo:    "HMSEED0004",
			Status:     constants.OrderStatusDelivered,
			TrackingNo: "YT2468013579",
			CreatedAgo: 6 * 24 * time.Hour,
			Items: []models.OrderItem{
				itemOf(1005, "厨房置物架", "三层", 69.00, 1),
				itemOf(1006, "洗碗海绵", "10 只装", 12.50, 3),
			},
		},
		{
			OrderNo:    "HMSEED0005",
			Status:     constants.OrderStatusCompleted,
			TrackingNo: "JD9876543210",
			CreatedAgo: 15 * 24 * time.Hour,
			Items: []models.OrderItem{
				itemOf(1007, "电热水壶", "1.7L", 119.00, 1),
			},
		},
		{
			OrderNo:    "HMSEED0006",
			Status:     constants.OrderStatusCancelled,
			CreatedAgo: 20 * 24 * time.Hour,
			Items: []models.OrderItem{
				itemOf(1008, "懒人沙发", "豆袋款 橙色", 349.00, 1),
			},
		},
	}

	for _, plan := range orders {
		var existing models.Order
		if err := models.DB.Where("order_no = ?", plan.OrderNo).First(&existing).Error; err == nil {
			stdLog.Printf("Order already exists: %s", plan.OrderNo)
			continue
		}

		productTotal := decimal.Zero
		for i := range plan.Items {
			line := plan.Items[i].UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(plan.Items[i].Quantity)))
			plan.Items[i].TotalPrice = models.NewMoneyFromDecimal(line)
			productTotal = productTotal.Add(line)
		}

		order := models.Order{
			OrderNo:      plan.OrderNo,
			UserID:       demoUser.ID,
			BuyerName:    "王小明",
			BuyerPhone:   "13800001111",
			BuyerAddress: "上海市浦东新区世纪大道 100 号 2201 室",
			Status:       plan.Status,
			TrackingNo:   plan.TrackingNo,
			ProductTotal: models.NewMoneyFromDecimal(productTotal),
			ServerTotal:  models.NewMoneyFromDecimal(productTotal),
			CreatedAt:    now.Add(-plan.CreatedAgo),
			Items:        plan.Items,
		}
		if err := models.DB.Create(&order).Error; err != nil {
			stdLog.Printf("Failed to create order %s: %v", plan.OrderNo, err)
		} else {
			stdLog.Printf("Created order: %s (%s)", plan.OrderNo, plan.Status)
		}
	}

	// 买家分组结算：汇总同一（姓名，电话）下的订单金额
	seedSettlement(stdLog.Printf, "王小明", "13800001111")

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- Default admin")
	fmt.Println("- 1 Demo user (demo@homemart.dev / Demo123456)")
	fmt.Printf("- %d Demo orders across statuses\n", len(orders))
	fmt.Println("- 1 Settlement record (buyer group)")
}

func itemOf(productID uint, name, variant string, unitPrice float64, quantity int) models.OrderItem {
	return models.OrderItem{
		ProductID:    productID,
		Name:         name,
		VariantLabel: variant,
		UnitPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(unitPrice)),
		Quantity:     quantity,
	}
}

func seedDemoUser(logf func(format string, args ...interface{})) *models.User {
	var existing models.User
	if err := models.DB.Where("email = ?", "demo@homemart.dev").First(&existing).Error; err == nil {
		logf("Demo user already exists: %s", existing.Email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Demo123456"), bcrypt.DefaultCost)
	if err != nil {
		logf("Failed to hash demo user password: %v", err)
		return nil
	}
	user := models.User{
		Email:        "demo@homemart.dev",
		PasswordHash: string(hash),
		DisplayName:  "演示买家",
		Phone:        "13800001111",
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		logf("Failed to create demo user: %v", err)
		return nil
	}
	logf("Created demo user: %s", user.Email)
	return &user
}

func seedSettlement(logf func(format string, args ...interface{}), buyerName, buyerPhone string) {
	var orders []models.Order
	if err := models.DB.
		Where("buyer_name = ? AND buyer_phone = ? AND status <> ?", buyerName, buyerPhone, constants.OrderStatusCancelled).
		Find(&orders).Error; err != nil {
		logf("Failed to load orders for settlement: %v", err)
		return
	}

	productTotal := decimal.Zero
	for _, order := range orders {
		productTotal = productTotal.Add(order.ProductTotal.Decimal)
	}
	shippingFee := decimal.NewFromFloat(15.00)

	var existing models.SettlementRecord
	if err := models.DB.Where("buyer_name = ? AND buyer_phone = ?", buyerName, buyerPhone).First(&existing).Error; err == nil {
		if existing.Locked {
			logf("Settlement already locked for %s/%s, skip", buyerName, buyerPhone)
			return
		}
		existing.ProductTotal = models.NewMoneyFromDecimal(productTotal)
		existing.ShippingFee = models.NewMoneyFromDecimal(shippingFee)
		existing.TotalPayable = models.NewMoneyFromDecimal(productTotal.Add(shippingFee))
		if err := models.DB.Save(&existing).Error; err != nil {
			logf("Failed to update settlement for %s/%s: %v", buyerName, buyerPhone, err)
		} else {
			logf("Updated settlement for %s/%s", buyerName, buyerPhone)
		}
		return
	}

	record := models.SettlementRecord{
		BuyerName:    buyerName,
		BuyerPhone:   buyerPhone,
		ProductTotal: models.NewMoneyFromDecimal(productTotal),
		ShippingFee:  models.NewMoneyFromDecimal(shippingFee),
		TotalPayable: models.NewMoneyFromDecimal(productTotal.Add(shippingFee)),
	}
	if err := models.DB.Create(&record).Error; err != nil {
		logf("Failed to create settlement for %s/%s: %v", buyerName, buyerPhone, err)
	} else {
		logf("Created settlement for %s/%s", buyerName, buyerPhone)
	}
}
