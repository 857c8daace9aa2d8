package mysql

import "time"

// Table names of the catalog schema.
const (
	productTable           = "cart_products_products"
	productCategoryTable   = "cart_products_product_categories"
	categoryTable          = "cart_products_categories"
	specialPriceTable      = "cart_products_special_prices"
	quantityDiscountTable  = "cart_products_quantity_discounts"
	beVariantTable         = "cart_products_be_variants"
	beVariantAttrTable     = "cart_products_be_variant_attributes"
	beVariantAttrOptsTable = "cart_products_be_variant_attribute_options"
	pageTable              = "pages"
)

type productModel struct {
	ID                    uint    `gorm:"primaryKey"`
	Pid                   uint    `gorm:"index;not null;default:0"`
	ProductType           string  `gorm:"type:varchar(32);not null;default:simple"`
	SKU                   string  `gorm:"column:sku;type:varchar(255);index;not null"`
	Title                 string  `gorm:"type:varchar(255);not null"`
	Teaser                string  `gorm:"type:text"`
	Description           string  `gorm:"type:text"`
	Price                 float64 `gorm:"type:decimal(12,2);not null;default:0"`
	Stock                 int     `gorm:"not null;default:0"`
	HandleStock           bool    `gorm:"not null;default:false"`
	HandleStockInVariants bool    `gorm:"not null;default:false"`
	PriceMeasure          float64 `gorm:"type:decimal(12,4);not null;default:0"`
	PriceMeasureUnit      string  `gorm:"type:varchar(8)"`
	BasePriceMeasureUnit  string  `gorm:"type:varchar(8)"`
	MinNumberInOrder      int     `gorm:"not null;default:0"`
	MaxNumberInOrder      int     `gorm:"not null;default:0"`
	TaxClassID            int     `gorm:"not null;default:1"`
	ServiceAttribute1     float64
	ServiceAttribute2     float64
	ServiceAttribute3     float64

	BeVariantAttribute1ID *uint
	BeVariantAttribute1   *beVariantAttributeModel `gorm:"foreignKey:BeVariantAttribute1ID"`
	BeVariantAttribute2ID *uint
	BeVariantAttribute2   *beVariantAttributeModel `gorm:"foreignKey:BeVariantAttribute2ID"`
	BeVariantAttribute3ID *uint
	BeVariantAttribute3   *beVariantAttributeModel `gorm:"foreignKey:BeVariantAttribute3ID"`

	CategoryID        uint                    `gorm:"index;not null;default:0"`
	Categories        []categoryModel         `gorm:"many2many:cart_products_product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
	SpecialPrices     []specialPriceModel     `gorm:"foreignKey:ProductID"`
	QuantityDiscounts []quantityDiscountModel `gorm:"foreignKey:ProductID"`
	BeVariants        []beVariantModel        `gorm:"foreignKey:ProductID"`

	LanguageID    int        `gorm:"column:sys_language_uid;not null;default:0"`
	StartTime     *time.Time `gorm:"column:starttime"`
	EndTime       *time.Time `gorm:"column:endtime"`
	FrontendGroup string     `gorm:"column:fe_group;type:varchar(255)"`
	Hidden        bool       `gorm:"not null;default:false"`
	Deleted       bool       `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (productModel) TableName() string { return productTable }

type categoryModel struct {
	ID       uint   `gorm:"primaryKey"`
	ParentID uint   `gorm:"index;not null;default:0"`
	Title    string `gorm:"type:varchar(255);not null"`
	ShowPid  uint   `gorm:"not null;default:0"`
	Hidden   bool   `gorm:"not null;default:false"`
	Deleted  bool   `gorm:"not null;default:false"`
}

func (categoryModel) TableName() string { return categoryTable }

type specialPriceModel struct {
	ID                  uint    `gorm:"primaryKey"`
	ProductID           *uint   `gorm:"index"`
	BeVariantID         *uint   `gorm:"index"`
	Title               string  `gorm:"type:varchar(255)"`
	Price               float64 `gorm:"type:decimal(12,2);not null"`
	FrontendUserGroupID uint    `gorm:"column:frontend_user_group;not null;default:0"`
}

func (specialPriceModel) TableName() string { return specialPriceTable }

type quantityDiscountModel struct {
	ID                  uint    `gorm:"primaryKey"`
	ProductID           uint    `gorm:"index;not null"`
	Price               float64 `gorm:"type:decimal(12,2);not null"`
	Quantity            int     `gorm:"not null"`
	FrontendUserGroupID uint    `gorm:"column:frontend_user_group;not null;default:0"`
}

func (quantityDiscountModel) TableName() string { return quantityDiscountTable }

type beVariantModel struct {
	ID              uint                `gorm:"primaryKey"`
	ProductID       uint                `gorm:"index;not null"`
	SKU             string              `gorm:"column:sku;type:varchar(255)"`
	Price           float64             `gorm:"type:decimal(12,2);not null;default:0"`
	PriceCalcMethod int                 `gorm:"not null;default:0"`
	Stock           int                 `gorm:"not null;default:0"`
	SpecialPrices   []specialPriceModel `gorm:"foreignKey:BeVariantID"`

	AttributeOption1ID *uint
	AttributeOption1   *beVariantAttributeOptionModel `gorm:"foreignKey:AttributeOption1ID"`
	AttributeOption2ID *uint
	AttributeOption2   *beVariantAttributeOptionModel `gorm:"foreignKey:AttributeOption2ID"`
	AttributeOption3ID *uint
	AttributeOption3   *beVariantAttributeOptionModel `gorm:"foreignKey:AttributeOption3ID"`
}

func (beVariantModel) TableName() string { return beVariantTable }

type beVariantAttributeModel struct {
	ID      uint                            `gorm:"primaryKey"`
	SKU     string                          `gorm:"column:sku;type:varchar(255)"`
	Title   string                          `gorm:"type:varchar(255);not null"`
	Options []beVariantAttributeOptionModel `gorm:"foreignKey:AttributeID"`
}

func (beVariantAttributeModel) TableName() string { return beVariantAttrTable }

type beVariantAttributeOptionModel struct {
	ID          uint   `gorm:"primaryKey"`
	AttributeID uint   `gorm:"index;not null"`
	SKU         string `gorm:"column:sku;type:varchar(255)"`
	Title       string `gorm:"type:varchar(255);not null"`
}

func (beVariantAttributeOptionModel) TableName() string { return beVariantAttrOptsTable }

type pageModel struct {
	ID      uint   `gorm:"primaryKey"`
	Pid     uint   `gorm:"index;not null;default:0"`
	Title   string `gorm:"type:varchar(255)"`
	Deleted bool   `gorm:"not null;default:false"`
}

func (pageModel) TableName() string { return pageTable }

// Models lists every table model, in migration order.
func Models() []any {
	return []any{
		&pageModel{},
		&categoryModel{},
		&beVariantAttributeModel{},
		&beVariantAttributeOptionModel{},
		&productModel{},
		&beVariantModel{},
		&specialPriceModel{},
		&quantityDiscountModel{},
	}
}
