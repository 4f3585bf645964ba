package dto

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	Telefono  string  `json:"telefono"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Direccion string  `json:"direccion"`
	Notas     *string `json:"notas"`
	FotoID    *string `json:"foto_id"`
}

type ActualizarClienteRequest struct {
	Nombre    *string `json:"nombre"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
	Notas     *string `json:"notas"`
	FotoID    *string `json:"foto_id"`
}

type ClienteFilter struct {
	Busqueda string `form:"q"` // matches nombre o telefono
	Activo   string `form:"activo"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Telefono  string  `json:"telefono,omitempty"`
	Email     string  `json:"email,omitempty"`
	Direccion string  `json:"direccion,omitempty"`
	Notas     *string `json:"notas,omitempty"`
	FotoURL   string  `json:"foto_url,omitempty"`
	Activo    bool    `json:"activo"`
	CreatedAt string  `json:"created_at"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
