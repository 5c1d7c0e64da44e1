package queries

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"
)

// Portable returns plain SQL statements over the tables declared in
// models. They run on SQLite, MySQL and PostgreSQL without stored
// procedures. Soft deletes only match active rows.
func Portable(flavor sqlbuilder.Flavor) *Registry {
	return newRegistry("portable", map[string]templates{
		"categorias": {
			List: `SELECT c.id, c.nombre, c.descripcion, c.categoria_padre_id, p.nombre AS categoria_padre_nombre, c.activo, c.created_at
				FROM categorias c LEFT JOIN categorias p ON p.id = c.categoria_padre_id ORDER BY c.id`,
			Create: `INSERT INTO categorias (nombre, descripcion, categoria_padre_id, activo, created_at, updated_at)
				VALUES (:nombre, :descripcion, :categoria_padre_id, COALESCE(:activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE categorias SET nombre = :nombre, descripcion = :descripcion, categoria_padre_id = :categoria_padre_id,
				activo = COALESCE(:activo, activo), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE categorias SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"productos": {
			List: fmt.Sprintf(`SELECT p.id, p.sku, p.nombre, p.descripcion, p.precio_compra, p.precio_venta, p.unidad_medida,
				p.stock_actual, p.stock_minimo, p.tiene_iva, p.activo, p.created_at,
				(SELECT %s FROM producto_categorias pc JOIN categorias c ON c.id = pc.categoria_id WHERE pc.producto_id = p.id) AS categorias
				FROM productos p ORDER BY p.id`, aggregateNames(flavor, "c.nombre")),
			Create: `INSERT INTO productos (sku, nombre, descripcion, precio_compra, precio_venta, unidad_medida, tiene_iva, activo, stock_actual, stock_minimo, created_at, updated_at)
				VALUES (:sku, :nombre, :descripcion, :precio_compra, :precio_venta, :unidad_medida, COALESCE(:tiene_iva, TRUE), COALESCE(:activo, TRUE), 0, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE productos SET sku = :sku, nombre = :nombre, descripcion = :descripcion, precio_compra = :precio_compra,
				precio_venta = :precio_venta, unidad_medida = :unidad_medida, tiene_iva = COALESCE(:tiene_iva, tiene_iva),
				activo = COALESCE(:activo, activo), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE productos SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"usuarios": {
			List: "SELECT id, username, nombre, apellido, email, telefono, rol, activo, created_at FROM usuarios ORDER BY id",
			Create: `INSERT INTO usuarios (username, password_hash, nombre, apellido, email, telefono, rol, activo, created_at, updated_at)
				VALUES (:username, :password_hash, :nombre, :apellido, :email, :telefono, :rol, COALESCE(:activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE usuarios SET username = :username, password_hash = COALESCE(:password_hash, password_hash), nombre = :nombre,
				apellido = :apellido, email = :email, telefono = :telefono, rol = :rol, activo = COALESCE(:activo, activo),
				updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE usuarios SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"bodegas": {
			List: "SELECT id, nombre, codigo, direccion, es_principal, activa, created_at FROM bodegas ORDER BY id",
			Create: `INSERT INTO bodegas (nombre, codigo, direccion, es_principal, activa, created_at, updated_at)
				VALUES (:nombre, :codigo, :direccion, COALESCE(:es_principal, FALSE), COALESCE(:activa, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE bodegas SET nombre = :nombre, codigo = :codigo, direccion = :direccion, es_principal = COALESCE(:es_principal, es_principal),
				activa = COALESCE(:activa, activa), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE bodegas SET activa = FALSE WHERE id = :id AND activa = TRUE",
		},
		"cajas": {
			List: `SELECT c.id, c.nombre, c.codigo, c.bodega_id, b.nombre AS bodega_nombre, c.activa, c.created_at
				FROM cajas c LEFT JOIN bodegas b ON b.id = c.bodega_id ORDER BY c.id`,
			Create: `INSERT INTO cajas (nombre, codigo, bodega_id, activa, created_at, updated_at)
				VALUES (:nombre, :codigo, :bodega_id, COALESCE(:activa, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE cajas SET nombre = :nombre, codigo = :codigo, bodega_id = :bodega_id, activa = COALESCE(:activa, activa),
				updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE cajas SET activa = FALSE WHERE id = :id AND activa = TRUE",
		},
		"estados": {
			List: "SELECT id, modulo, codigo, nombre, descripcion, orden, es_activo, created_at FROM estados ORDER BY id",
			Create: `INSERT INTO estados (modulo, codigo, nombre, descripcion, orden, es_activo, created_at, updated_at)
				VALUES (:modulo, :codigo, :nombre, :descripcion, :orden, COALESCE(:es_activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE estados SET modulo = :modulo, codigo = :codigo, nombre = :nombre, descripcion = :descripcion, orden = :orden,
				es_activo = COALESCE(:es_activo, es_activo), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "DELETE FROM estados WHERE id = :id",
		},
		"tipos_documento": {
			List: `SELECT id, codigo, nombre, descripcion, requiere_cliente, serie, correlativo_actual, activo, created_at
				FROM tipos_documento ORDER BY id`,
			Create: `INSERT INTO tipos_documento (codigo, nombre, descripcion, requiere_cliente, serie, correlativo_actual, activo, created_at, updated_at)
				VALUES (:codigo, :nombre, :descripcion, COALESCE(:requiere_cliente, FALSE), :serie, COALESCE(:correlativo_actual, 1), COALESCE(:activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE tipos_documento SET codigo = :codigo, nombre = :nombre, descripcion = :descripcion,
				requiere_cliente = COALESCE(:requiere_cliente, requiere_cliente), serie = :serie, activo = COALESCE(:activo, activo),
				updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE tipos_documento SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"tipos_promocion": {
			List: "SELECT id, codigo, nombre, descripcion, formula, activo, created_at FROM tipos_promocion ORDER BY id",
			Create: `INSERT INTO tipos_promocion (codigo, nombre, descripcion, formula, activo, created_at, updated_at)
				VALUES (:codigo, :nombre, :descripcion, :formula, COALESCE(:activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE tipos_promocion SET codigo = :codigo, nombre = :nombre, descripcion = :descripcion, formula = :formula,
				activo = COALESCE(:activo, activo), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE tipos_promocion SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"metodos_pago": {
			List: "SELECT id, codigo, nombre, descripcion, requiere_referencia, orden, activo, created_at FROM metodos_pago ORDER BY id",
			Create: `INSERT INTO metodos_pago (codigo, nombre, descripcion, requiere_referencia, orden, activo, created_at, updated_at)
				VALUES (:codigo, :nombre, :descripcion, COALESCE(:requiere_referencia, FALSE), :orden, COALESCE(:activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE metodos_pago SET codigo = :codigo, nombre = :nombre, descripcion = :descripcion,
				requiere_referencia = COALESCE(:requiere_referencia, requiere_referencia), orden = :orden,
				activo = COALESCE(:activo, activo), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE metodos_pago SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"proveedores": {
			List: "SELECT id, nombre, rut, telefono, email, direccion, activo, created_at FROM proveedores ORDER BY id",
			Create: `INSERT INTO proveedores (nombre, rut, telefono, email, direccion, activo, created_at, updated_at)
				VALUES (:nombre, :rut, :telefono, :email, :direccion, COALESCE(:activo, TRUE), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			Update: `UPDATE proveedores SET nombre = :nombre, rut = :rut, telefono = :telefono, email = :email, direccion = :direccion,
				activo = COALESCE(:activo, activo), updated_at = CURRENT_TIMESTAMP WHERE id = :id`,
			Delete: "UPDATE proveedores SET activo = FALSE WHERE id = :id AND activo = TRUE",
		},
		"ventas": {
			List: `SELECT v.id, v.numero_documento, v.total, v.created_at, c.nombre AS caja_nombre, u.username AS usuario,
				t.nombre AS tipo_documento, e.nombre AS estado
				FROM ventas v
				LEFT JOIN cajas c ON c.id = v.caja_id
				LEFT JOIN usuarios u ON u.id = v.usuario_id
				LEFT JOIN tipos_documento t ON t.id = v.tipo_documento_id
				LEFT JOIN estados e ON e.id = v.estado_id
				ORDER BY v.id`,
		},
		"turnos_caja": {
			List: `SELECT tc.id, c.nombre AS caja_nombre, u.username AS usuario, tc.monto_inicial, tc.monto_final,
				tc.fecha_apertura, tc.fecha_cierre, e.nombre AS estado
				FROM turnos_caja tc
				LEFT JOIN cajas c ON c.id = tc.caja_id
				LEFT JOIN usuarios u ON u.id = tc.usuario_id
				LEFT JOIN estados e ON e.id = tc.estado_id
				ORDER BY tc.id`,
		},
	})
}

// aggregateNames joins a column into a ", " separated list in the
// dialect's own aggregate.
func aggregateNames(flavor sqlbuilder.Flavor, column string) string {
	switch flavor {
	case sqlbuilder.MySQL:
		return "GROUP_CONCAT(" + column + " ORDER BY " + column + " SEPARATOR ', ')"
	case sqlbuilder.PostgreSQL:
		return "string_agg(" + column + ", ', ' ORDER BY " + column + ")"
	default:
		return "group_concat(" + column + ", ', ')"
	}
}
