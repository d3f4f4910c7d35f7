package dto

// PageResponse metadatos de página en respuestas (índice de página base 0).
type PageResponse struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
	Total     int    `json:"total"`
	PageCount int    `json:"pageCount"`
	Search    string `json:"search,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
