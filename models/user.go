package models

import "time"

/************************************************
/**** MARK: ROLES ****/
/************************************************/
const ROL_ADMIN = "ADMIN"
const ROL_CAJERO = "CAJERO"
const ROL_BODEGUERO = "BODEGUERO"
const ROL_SUPERVISOR = "SUPERVISOR"

// Usuario representa um operador do back office. A senha só é
// armazenada como hash bcrypt.
type Usuario struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Username     string     `gorm:"not null;unique" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Nombre       string     `gorm:"not null" json:"nombre"`
	Apellido     string     `json:"apellido"`
	Email        string     `gorm:"not null" json:"email"`
	Telefono     *string    `json:"telefono"`
	Rol          string     `gorm:"not null" json:"rol"`
	Activo       bool       `gorm:"type:boolean;not null;default:true" json:"activo"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }

func IsRol(rol string) bool {
	switch rol {
	case ROL_ADMIN, ROL_CAJERO, ROL_BODEGUERO, ROL_SUPERVISOR:
		return true
	}
	return false
}
