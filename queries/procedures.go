package queries

// Procedures returns the statement set backed by the production
// PostgreSQL stored procedures.
func Procedures() *Registry {
	return newRegistry("procedures", map[string]templates{
		"categorias": {
			List:   "SELECT * FROM sp_categorias_listar()",
			Create: "SELECT sp_categorias_crear(:nombre, :descripcion, :categoria_padre_id, :activo) AS id",
			Update: "SELECT sp_categorias_actualizar(:id, :nombre, :descripcion, :categoria_padre_id, :activo) AS success",
			Delete: "SELECT sp_categorias_eliminar(:id) AS success",
		},
		"productos": {
			List:   "SELECT * FROM sp_productos_listar()",
			Create: "SELECT sp_productos_crear(:sku, :nombre, :descripcion, :precio_compra, :precio_venta, :unidad_medida, :tiene_iva, :activo) AS id",
			Update: "SELECT sp_productos_actualizar(:id, :sku, :nombre, :descripcion, :precio_compra, :precio_venta, :unidad_medida, :tiene_iva, :activo) AS success",
			Delete: "SELECT sp_productos_eliminar(:id) AS success",
		},
		"usuarios": {
			List:   "SELECT * FROM sp_usuarios_listar()",
			Create: "SELECT sp_usuarios_crear(:username, :password_hash, :nombre, :apellido, :email, :telefono, :rol, :activo) AS id",
			Update: "UPDATE usuarios SET username = :username, password_hash = COALESCE(:password_hash, password_hash), nombre = :nombre, apellido = :apellido, email = :email, telefono = :telefono, rol = :rol, activo = :activo WHERE id = :id",
			Delete: "UPDATE usuarios SET activo = false WHERE id = :id AND activo = true",
		},
		"bodegas": {
			List:   "SELECT * FROM sp_bodegas_listar()",
			Create: "SELECT sp_bodegas_crear(:nombre, :codigo, :direccion, :es_principal, :activa) AS id",
			Update: "UPDATE bodegas SET nombre = :nombre, codigo = :codigo, direccion = :direccion, es_principal = :es_principal, activa = :activa WHERE id = :id",
			Delete: "UPDATE bodegas SET activa = false WHERE id = :id AND activa = true",
		},
		"cajas": {
			List:   "SELECT * FROM sp_cajas_listar()",
			Create: "SELECT sp_cajas_crear(:nombre, :codigo, :bodega_id, :activa) AS id",
			Update: "UPDATE cajas SET nombre = :nombre, codigo = :codigo, bodega_id = :bodega_id, activa = :activa WHERE id = :id",
			Delete: "UPDATE cajas SET activa = false WHERE id = :id AND activa = true",
		},
		"estados": {
			List:   "SELECT * FROM sp_estados_listar()",
			Create: "SELECT sp_estados_crear(:modulo, :codigo, :nombre, :descripcion, :orden, :es_activo) AS id",
			Update: "UPDATE estados SET modulo = :modulo, codigo = :codigo, nombre = :nombre, descripcion = :descripcion, orden = :orden, es_activo = :es_activo WHERE id = :id",
			Delete: "DELETE FROM estados WHERE id = :id",
		},
		"tipos_documento": {
			List:   "SELECT * FROM sp_tipos_documento_listar()",
			Create: "SELECT sp_tipos_documento_crear(:codigo, :nombre, :descripcion, :requiere_cliente, :serie, :correlativo_actual, :activo) AS id",
			Update: "UPDATE tipos_documento SET codigo = :codigo, nombre = :nombre, descripcion = :descripcion, requiere_cliente = :requiere_cliente, serie = :serie, activo = :activo WHERE id = :id",
			Delete: "UPDATE tipos_documento SET activo = false WHERE id = :id AND activo = true",
		},
		"tipos_promocion": {
			List:   "SELECT * FROM sp_tipos_promocion_listar()",
			Create: "SELECT sp_tipos_promocion_crear(:codigo, :nombre, :descripcion, :formula, :activo) AS id",
			Update: "UPDATE tipos_promocion SET codigo = :codigo, nombre = :nombre, descripcion = :descripcion, formula = :formula, activo = :activo WHERE id = :id",
			Delete: "UPDATE tipos_promocion SET activo = false WHERE id = :id AND activo = true",
		},
		"metodos_pago": {
			List:   "SELECT * FROM sp_metodos_pago_listar()",
			Create: "SELECT sp_metodos_pago_crear(:codigo, :nombre, :descripcion, :requiere_referencia, :orden, :activo) AS id",
			Update: "UPDATE metodos_pago SET codigo = :codigo, nombre = :nombre, descripcion = :descripcion, requiere_referencia = :requiere_referencia, orden = :orden, activo = :activo WHERE id = :id",
			Delete: "UPDATE metodos_pago SET activo = false WHERE id = :id AND activo = true",
		},
		"proveedores": {
			List:   "SELECT * FROM sp_proveedores_listar()",
			Create: "SELECT sp_proveedores_crear(:nombre, :rut, :telefono, :email, :direccion, :activo) AS id",
			Update: "UPDATE proveedores SET nombre = :nombre, rut = :rut, telefono = :telefono, email = :email, direccion = :direccion, activo = :activo WHERE id = :id",
			Delete: "UPDATE proveedores SET activo = false WHERE id = :id AND activo = true",
		},
		"ventas": {
			List: "SELECT * FROM sp_ventas_listar()",
		},
		"turnos_caja": {
			List: "SELECT * FROM sp_turnos_caja_listar()",
		},
	})
}

// DescriptorDocument loads the descriptor document stored in the database.
const DescriptorDocument = "SELECT sp_configuracion_obtener_completa() AS configuracion"
