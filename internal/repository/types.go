package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page           int
	PageSize       int
	CollectionID   uint
	Search         string
	Ordering       string
	InventoryLevel string
	LowStock       int // 低库存阈值（不含）
	HighStock      int // 高库存阈值（含）
}

// CollectionListFilter 查询集合列表的过滤条件
type CollectionListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page       int
	PageSize   int
	CustomerID uint
	Status     string
}

// CustomerListFilter 查询顾客列表的过滤条件
type CustomerListFilter struct {
	Page       int
	PageSize   int
	Search     string
	Membership string
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
}

// PromotionListFilter 查询促销列表的过滤条件
type PromotionListFilter struct {
	Page     int
	PageSize int
}

// InventoryListFilter 库存报表过滤条件
type InventoryListFilter struct {
	Page      int
	PageSize  int
	Level     string
	LowStock  int
	HighStock int
}
