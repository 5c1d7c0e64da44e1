package models

import "time"

type TipoDocumento struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Codigo            string     `gorm:"not null;unique" json:"codigo"`
	Nombre            string     `gorm:"not null" json:"nombre"`
	Descripcion       *string    `json:"descripcion"`
	RequiereCliente   bool       `gorm:"type:boolean;not null;default:false" json:"requiere_cliente"`
	Serie             string     `json:"serie"`
	CorrelativoActual int64      `gorm:"not null;default:1" json:"correlativo_actual"`
	Activo            bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

func (TipoDocumento) TableName() string { return "tipos_documento" }

// TipoPromocion guarda a fórmula de cálculo da promoção como expressão
type TipoPromocion struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Codigo      string     `gorm:"not null;unique" json:"codigo"`
	Nombre      string     `gorm:"not null" json:"nombre"`
	Descripcion *string    `json:"descripcion"`
	Formula     string     `gorm:"type:text" json:"formula"`
	Activo      bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (TipoPromocion) TableName() string { return "tipos_promocion" }

type MetodoPago struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Codigo             string     `gorm:"not null;unique" json:"codigo"`
	Nombre             string     `gorm:"not null" json:"nombre"`
	Descripcion        *string    `json:"descripcion"`
	RequiereReferencia bool       `gorm:"type:boolean;not null;default:false" json:"requiere_referencia"`
	Orden              int64      `json:"orden"`
	Activo             bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

func (MetodoPago) TableName() string { return "metodos_pago" }

// Venta e TurnoCaja são gravados pelo PDV; aqui só são listados
type Venta struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	NumeroDocumento string     `json:"numero_documento"`
	CajaID          int64      `json:"caja_id"`
	UsuarioID       int64      `json:"usuario_id"`
	TipoDocumentoID int64      `json:"tipo_documento_id"`
	EstadoID        int64      `json:"estado_id"`
	Total           float64    `gorm:"type:numeric(12,2)" json:"total"`
	CreatedAt       *time.Time `json:"created_at"`
}

func (Venta) TableName() string { return "ventas" }

type TurnoCaja struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CajaID        int64      `json:"caja_id"`
	UsuarioID     int64      `json:"usuario_id"`
	EstadoID      int64      `json:"estado_id"`
	MontoInicial  float64    `gorm:"type:numeric(12,2)" json:"monto_inicial"`
	MontoFinal    *float64   `gorm:"type:numeric(12,2)" json:"monto_final"`
	FechaApertura *time.Time `json:"fecha_apertura"`
	FechaCierre   *time.Time `json:"fecha_cierre"`
}

func (TurnoCaja) TableName() string { return "turnos_caja" }

// All lists every table for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&Categoria{},
		&Producto{},
		&ProductoCategoria{},
		&Proveedor{},
		&Usuario{},
		&Bodega{},
		&Caja{},
		&Estado{},
		&TipoDocumento{},
		&TipoPromocion{},
		&MetodoPago{},
		&Venta{},
		&TurnoCaja{},
	}
}
