package models

import "time"

type Bodega struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nombre      string     `gorm:"not null" json:"nombre"`
	Codigo      string     `gorm:"not null;unique" json:"codigo"`
	Direccion   string     `json:"direccion"`
	EsPrincipal bool       `gorm:"type:boolean;not null;default:false" json:"es_principal"`
	Activa      bool       `gorm:"type:boolean;not null;default:true" json:"activa"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (Bodega) TableName() string { return "bodegas" }

type Caja struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nombre    string     `gorm:"not null" json:"nombre"`
	Codigo    string     `gorm:"not null;unique" json:"codigo"`
	BodegaID  int64      `gorm:"column:bodega_id" json:"bodega_id"`
	Activa    bool       `gorm:"type:boolean;not null;default:true" json:"activa"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (Caja) TableName() string { return "cajas" }

/************************************************
/**** MARK: ESTADO MODULES ****/
/************************************************/
const ESTADO_MODULO_VENTA = "VENTA"
const ESTADO_MODULO_TURNO = "TURNO"
const ESTADO_MODULO_PAGO = "PAGO"
const ESTADO_MODULO_TRASLADO = "TRASLADO"

type Estado struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Modulo      string     `gorm:"not null" json:"modulo"`
	Codigo      string     `gorm:"not null" json:"codigo"`
	Nombre      string     `gorm:"not null" json:"nombre"`
	Descripcion *string    `json:"descripcion"`
	Orden       int64      `json:"orden"`
	EsActivo    bool       `gorm:"type:boolean;not null;default:true" json:"es_activo"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (Estado) TableName() string { return "estados" }
