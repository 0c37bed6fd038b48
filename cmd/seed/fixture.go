package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/dujiao-next/storefront/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture 种子数据文件结构
type Fixture struct {
	Collections []CollectionFixture `yaml:"collections"`
	Promotions  []PromotionFixture  `yaml:"promotions"`
}

// CollectionFixture 集合种子
type CollectionFixture struct {
	Title    string           `yaml:"title"`
	Featured string           `yaml:"featured"` // 推荐商品标题
	Products []ProductFixture `yaml:"products"`
}

// ProductFixture 商品种子
type ProductFixture struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Inventory   int      `yaml:"inventory"`
	Promotions  []string `yaml:"promotions"` // 促销描述
}

// PromotionFixture 促销种子
type PromotionFixture struct {
	Description string  `yaml:"description"`
	Discount    float64 `yaml:"discount"`
}

func loadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", path, err)
		}
		data = raw
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fixture.validate(); err != nil {
		return nil, err
	}
	return &fixture, nil
}

func (f *Fixture) validate() error {
	promotions := make(map[string]struct{}, len(f.Promotions))
	for _, promotion := range f.Promotions {
		if strings.TrimSpace(promotion.Description) == "" {
			return fmt.Errorf("promotion description is required")
		}
		if promotion.Discount < 0 || promotion.Discount > 1 {
			return fmt.Errorf("promotion %q discount out of range", promotion.Description)
		}
		promotions[promotion.Description] = struct{}{}
	}
	for _, collection := range f.Collections {
		if strings.TrimSpace(collection.Title) == "" {
			return fmt.Errorf("collection title is required")
		}
		featuredFound := collection.Featured == ""
		for _, product := range collection.Products {
			if strings.TrimSpace(product.Title) == "" {
				return fmt.Errorf("collection %q: product title is required", collection.Title)
			}
			if _, err := models.NewMoneyFromString(product.Price); err != nil {
				return fmt.Errorf("product %q: %w", product.Title, err)
			}
			if product.Inventory < 0 {
				return fmt.Errorf("product %q: inventory must not be negative", product.Title)
			}
			for _, name := range product.Promotions {
				if _, ok := promotions[name]; !ok {
					return fmt.Errorf("product %q: unknown promotion %q", product.Title, name)
				}
			}
			if product.Title == collection.Featured {
				featuredFound = true
			}
		}
		if !featuredFound {
			return fmt.Errorf("collection %q: featured product %q not listed", collection.Title, collection.Featured)
		}
	}
	return nil
}
