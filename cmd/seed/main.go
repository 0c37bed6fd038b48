package main

import (
	"errors"
	"flag"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

func main() {
	var fixturePath string
	flag.StringVar(&fixturePath, "fixture", "", "种子数据 YAML 文件，默认使用内置数据")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	fixture, err := loadFixture(fixturePath)
	if err != nil {
		stdLog.Fatalf("加载种子数据失败: %v", err)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	stats, err := applyFixture(models.DB, fixture)
	if err != nil {
		stdLog.Fatalf("写入种子数据失败: %v", err)
	}
	logger.Infow("seed_completed",
		"collections_created", stats.Collections,
		"products_created", stats.Products,
		"promotions_created", stats.Promotions,
	)
}

type seedStats struct {
	Collections int
	Products    int
	Promotions  int
}

// applyFixture 按标题幂等写入种子数据，已存在的记录保持不变
func applyFixture(db *gorm.DB, fixture *Fixture) (seedStats, error) {
	var stats seedStats
	err := db.Transaction(func(tx *gorm.DB) error {
		promotions := make(map[string]models.Promotion, len(fixture.Promotions))
		for _, item := range fixture.Promotions {
			promotion := models.Promotion{Description: item.Description, Discount: item.Discount}
			created, err := firstOrCreate(tx, &promotion, "description = ?", item.Description)
			if err != nil {
				return err
			}
			if created {
				stats.Promotions++
			}
			promotions[item.Description] = promotion
		}

		for _, item := range fixture.Collections {
			collection := models.Collection{Title: item.Title}
			created, err := firstOrCreate(tx, &collection, "title = ?", item.Title)
			if err != nil {
				return err
			}
			if created {
				stats.Collections++
			}

			for _, p := range item.Products {
				product := models.Product{
					Title:        p.Title,
					Slug:         p.Slug,
					Description:  p.Description,
					Price:        models.MustMoney(p.Price),
					Inventory:    p.Inventory,
					CollectionID: collection.ID,
				}
				created, err := firstOrCreate(tx, &product, "title = ? AND collection_id = ?", p.Title, collection.ID)
				if err != nil {
					return err
				}
				if !created {
					continue
				}
				stats.Products++

				linked := make([]models.Promotion, 0, len(p.Promotions))
				for _, name := range p.Promotions {
					linked = append(linked, promotions[name])
				}
				if len(linked) > 0 {
					if err := tx.Model(&product).Association("Promotions").Append(linked); err != nil {
						return err
					}
				}
				if p.Title == item.Featured && collection.FeaturedProductID == nil {
					if err := tx.Model(&collection).Update("featured_product_id", product.ID).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	return stats, err
}

func firstOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := tx.Where(query, args...).First(dest).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := tx.Omit("Promotions", "Images").Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}
