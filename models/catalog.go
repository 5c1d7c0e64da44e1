package models

import "time"

// Categoria representa uma categoria de produtos (árvore via CategoriaPadreID)
type Categoria struct {
	ID               int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nombre           string     `gorm:"not null" json:"nombre"`
	Descripcion      *string    `json:"descripcion"`
	CategoriaPadreID *int64     `gorm:"column:categoria_padre_id" json:"categoria_padre_id"`
	Activo           bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func (Categoria) TableName() string { return "categorias" }

type Producto struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Sku          string     `gorm:"not null;unique" json:"sku"`
	Nombre       string     `gorm:"not null" json:"nombre"`
	Descripcion  *string    `json:"descripcion"`
	PrecioCompra float64    `gorm:"type:numeric(12,2)" json:"precio_compra"`
	PrecioVenta  float64    `gorm:"type:numeric(12,2)" json:"precio_venta"`
	UnidadMedida string     `json:"unidad_medida"`
	StockActual  int64      `gorm:"not null;default:0" json:"stock_actual"`
	StockMinimo  int64      `gorm:"not null;default:0" json:"stock_minimo"`
	TieneIva     bool       `gorm:"type:boolean;not null;default:true" json:"tiene_iva"`
	Activo       bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (Producto) TableName() string { return "productos" }

// ProductoCategoria liga produto <-> categoria (N:N)
type ProductoCategoria struct {
	ProductoID  int64 `gorm:"primary_key;auto_increment:false" json:"producto_id"`
	CategoriaID int64 `gorm:"primary_key;auto_increment:false" json:"categoria_id"`
}

func (ProductoCategoria) TableName() string { return "producto_categorias" }

type Proveedor struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nombre    string     `gorm:"not null" json:"nombre"`
	Rut       string     `gorm:"not null" json:"rut"`
	Telefono  *string    `json:"telefono"`
	Email     *string    `json:"email"`
	Direccion *string    `json:"direccion"`
	Activo    bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (Proveedor) TableName() string { return "proveedores" }
